package main

import "ledbox-netcfg/cmd"

func main() {
	cmd.Execute()
}
