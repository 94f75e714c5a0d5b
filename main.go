package main

import "github.com/frahmantamala/garments-tracker/cmd"

func main() {
	cmd.Execute()
}
