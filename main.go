package main

import "github.com/lavigneer/sillycat/cmd"

func main() {
	cmd.Execute()
}
