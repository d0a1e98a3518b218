// Package main provides the entry point for the flowreport CLI.
//
// flowreport turns a Node-RED flow export into a Markdown report describing
// its dashboard pages, UI groups and components, MQTT and HTTP interfaces,
// database configuration and categorized function-node source code.
//
// Usage:
//
//	flowreport report [flows.json ...]
//	flowreport compare old.json new.json
//
// See --help for all available options.
package main

func main() {
	Execute()
}
