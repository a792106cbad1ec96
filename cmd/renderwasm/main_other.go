//go:build !wasip1

// Command renderwasm is the WebAssembly module exposing rendercore entry
// points to a host. Build it with GOOS=wasip1 GOARCH=wasm
// -buildmode=c-shared.
package main

func main() {
	global.log.Fatal("renderwasm only runs as a wasip1 module; build with GOOS=wasip1 GOARCH=wasm -buildmode=c-shared")
}
