package main

import "github.com/desertwifi/wifimarket/cli"

var (
	AppName = "Desert WiFi Marketplace"
	Version = "latest"
)

func main() {
	cli.Execute(AppName, Version)
}
