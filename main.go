package main

import "github.com/varalys/sniper/cmd/sniper"

func main() {
	sniper.Execute()
}
