package instance

import "os"

// GetID returns the server instance identifier or a default value. Stores
// running more than one register server set REGISTER_INSTANCE_ID to tell
// their log streams apart.
func GetID() string {
	if id := os.Getenv("REGISTER_INSTANCE_ID"); id != "" {
		return id
	}
	return "register-0"
}
