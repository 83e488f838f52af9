package main

import "github.com/KaramelBytes/missioneda/cmd"

func main() {
	cmd.Execute()
}
