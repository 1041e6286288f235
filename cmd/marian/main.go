// Command marian runs the search engine: as an HTTP server, as a one-shot
// query against a manifest source, or as an interactive terminal browser.
package main

func main() {
	Execute()
}
