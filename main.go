package main

import "xcdistill/src/handler/cli"

func main() {
	cli.Run()
}
