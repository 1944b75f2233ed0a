//go:build !pi

package button

import (
	log "github.com/sirupsen/logrus"
	"os"
	"os/signal"
	"syscall"
)

// InitButton simulates the button with SIGHUP. Every signal is a press.
func InitButton(pin string) (<-chan ButtonEvent, error) {
	log.Infof("Simulating button on %v, send SIGHUP to press", pin)

	c := make(chan ButtonEvent, 5)
	go simulateButton(c)
	return c, nil
}

func simulateButton(c chan<- ButtonEvent) {
	hupChan := make(chan os.Signal, 1)
	signal.Notify(hupChan, syscall.SIGHUP)

	for range hupChan {
		c <- ButtonEvent{
			Pressed: true,
		}
	}
}
