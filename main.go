package main

import "github.com/ringmast4r/camtiles/cmd"

func main() {
	cmd.Execute()
}
