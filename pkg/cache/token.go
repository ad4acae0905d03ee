package cache

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// lockToken identifies this process as a lock holder.
func lockToken() string {
	host, _ := os.Hostname()
	return fmt.Sprintf("%s-%d-%s", host, os.Getpid(), uuid.NewString())
}
