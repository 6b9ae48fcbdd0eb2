package main

import "github.com/ByLCY/wificard/cmd"

func main() {
	cmd.Execute()
}
