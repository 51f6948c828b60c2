// Command instapfp downloads the highest-resolution profile picture for a
// username into the downloads directory.
package main

func main() {
	Execute()
}
