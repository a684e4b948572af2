package main

import "github.com/ValentinKolb/sortedkv/cmd"

func main() {
	cmd.Execute()
}
