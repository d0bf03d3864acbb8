package main

import "document-manager/cmd"

func main() {
	cmd.Execute()
}
