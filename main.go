package main

import "sf-content-upload/cmd"

func main() {
	cmd.Execute()
}
