// Command mhctl exercises the multiheap allocator from the command line.
package main

func main() {
	execute()
}
