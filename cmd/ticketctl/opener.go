package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"event-ticketing-storefront/internal/services"
)

// browserOpener prints the payment URL and hands it to the desktop's URL
// handler. TICKETCTL_NO_BROWSER=1 only prints it.
func browserOpener(out io.Writer) services.Opener {
	return services.OpenerFunc(func(url string) error {
		fmt.Fprintln(out, "Payment page:", url)
		if os.Getenv("TICKETCTL_NO_BROWSER") != "" {
			return nil
		}

		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
		return cmd.Start()
	})
}
