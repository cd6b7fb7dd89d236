// Command pointmesh serves and calls the Triangulator service, or runs a
// reconstruction locally.
package main

func main() {
	Execute()
}
