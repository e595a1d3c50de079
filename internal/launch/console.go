package launch

import (
	"fmt"
	"io"
	"strings"

	"github.com/vk/livelaunch/internal/config"
)

// ErrorMarker prefixes every failure banner.
const ErrorMarker = "[ERROR]"

const (
	totalSteps = 3
	rule       = "=================================================="
)

// console writes the operator-facing banners. Write errors are ignored; the
// launcher has nowhere better to report them.
type console struct {
	w io.Writer
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.w, format, args...)
}

func (c *console) banner(title string) {
	c.printf("%s\n   %s\n%s\n\n", rule, title, rule)
}

func (c *console) step(n int, msg string) {
	c.printf("[%d/%d] %s...\n", n, totalSteps, msg)
}

func (c *console) detail(msg string) {
	c.printf("      %s\n", msg)
}

func (c *console) failure(err error, remedy string) {
	msg := err.Error()
	first, rest, _ := strings.Cut(msg, "\n")
	c.printf("\n%s %s\n", ErrorMarker, first)
	if rest != "" {
		for _, line := range strings.Split(rest, "\n") {
			c.detail(line)
		}
	}
	if remedy != "" {
		c.printf("%s\n", remedy)
	}
}

func (c *console) started(cfg *config.Model) {
	c.printf("\n%s\n   System started\n\n", rule)
	c.printf("   %-13s %s\n", "Backend API:", cfg.Backend.URL())
	c.printf("   %-13s %s\n", "Frontend UI:", cfg.Frontend.URL())
	c.printf("%s\n\n", rule)
	c.printf("Usage:\n")
	c.printf("  1. Open %s in your browser\n", cfg.Frontend.URL())
	c.printf("  2. Train an avatar: upload a video, a reference audio clip and its transcript\n")
	c.printf("  3. Start the avatar, then chat with it from the UI\n")
	c.printf("  4. API endpoints: POST /train /start /stop /chat, GET /sessions /health\n")
	c.printf("  5. Close the service windows to stop the system\n")
	c.printf("\nLogs are written to %s\n", cfg.LogDir)
}
