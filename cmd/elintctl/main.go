// Command elintctl runs maintenance tasks against an Elint database.
package main

func main() {
	Execute()
}
