package main

import "github.com/brunosprotte/messenger-server-api/cmd"

func main() {
	cmd.Execute()
}
