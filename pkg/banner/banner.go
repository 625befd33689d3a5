package banner

import "fmt"

const banner = `
██████╗  ██████╗ ██╗    ██╗███████╗██████╗  ██████╗██╗  ██╗ █████╗ ████████╗
██╔══██╗██╔═══██╗██║    ██║██╔════╝██╔══██╗██╔════╝██║  ██║██╔══██╗╚══██╔══╝
██████╔╝██║   ██║██║ █╗ ██║█████╗  ██████╔╝██║     ███████║███████║   ██║
██╔═══╝ ██║   ██║██║███╗██║██╔══╝  ██╔══██╗██║     ██╔══██║██╔══██║   ██║
██║     ╚██████╔╝╚███╔███╔╝███████╗██║  ██║╚██████╗██║  ██║██║  ██║   ██║
╚═╝      ╚═════╝  ╚══╝╚══╝ ╚══════╝╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝
`

// Print prints the startup banner with listen address, data path and
// config sources.
func Print(addr, dataPath, sources, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:    %s\n", addr)
	fmt.Printf("Data Path: %s\n", dataPath)
	if version != "" {
		fmt.Printf("Version:   %s\n", version)
	}
	if sources != "" {
		fmt.Printf("Config sources: %s\n", sources)
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("GET  /v1/users/exists?email=<email> - Check whether an account exists")
	fmt.Println("POST /v1/users - Register a user (JSON: first_name, last_name, email)")
	fmt.Println("GET  /v1/chatrooms - List chatrooms with power windows")
	fmt.Println("GET  /v1/chatrooms/{id}/messages - List messages in a chatroom")
	fmt.Println("POST /v1/chatrooms/{id}/messages - Append a message (X-User-Name/X-User-Email headers)")
	fmt.Println("POST /v1/images/{name} - Upload a profile picture, returns its URL")
}
