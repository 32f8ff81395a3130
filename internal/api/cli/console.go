package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"led-inspect/internal/domain/entity"
	"led-inspect/internal/domain/port"
)

// Console показывает экран проверки в терминале
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	baseURL string
}

func NewConsole(out io.Writer, baseURL string) *Console {
	return &Console{out: out, baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Console) Present(ctx context.Context, _ int64, view entity.View) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	switch {
	case view.LoadingVisible:
		b.WriteString("Analyzing image...\n")

	case view.ResultVisible:
		b.WriteString(view.Banner + "\n")
		if len(view.Defects) == 0 {
			b.WriteString("  " + view.EmptyDefects + "\n")
		}
		for _, d := range view.Defects {
			b.WriteString("  - " + d + "\n")
		}
		writePreview(&b, "Analyzed image", view.AnalyzedImage)
		writePreview(&b, "Defect image", view.DefectImage)

	case view.UploadVisible && !view.ErrorVisible:
		b.WriteString("Ready for a new inspection.\n")
	}

	if view.ErrorVisible {
		b.WriteString("Error: " + view.Error + "\n")
	}

	_, err := io.WriteString(c.out, b.String())
	return err
}

func (c *Console) Navigate(ctx context.Context, _ int64, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := fmt.Fprintf(c.out, "Inspection page: %s%s\n", c.baseURL, target)
	return err
}

func writePreview(b *strings.Builder, label string, p *entity.ImagePreview) {
	if p == nil {
		return
	}
	fmt.Fprintf(b, "%s: %s (%dx%d)\n", label, p.Ref, p.Width, p.Height)
}

var _ port.Presenter = (*Console)(nil)
