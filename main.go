package main

import "openapi-sync/cmd"

func main() {
	cmd.Execute()
}
