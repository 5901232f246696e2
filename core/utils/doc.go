// Package utils provides loose type conversion used when decoding comparison
// documents whose fields may arrive as strings, numbers or booleans.
package utils
