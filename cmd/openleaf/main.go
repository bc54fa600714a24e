// Command openleaf serves the document API and pages.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AashishRichhariya/openleaf/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		fmt.Fprintln(os.Stderr, "openleaf:", err)
		os.Exit(1)
	}
}
