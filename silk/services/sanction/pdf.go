package sanction

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// RenderPDF turns the rendered letter HTML into an A4 PDF via headless
// Chromium. Requires the playwright browsers to be installed on the host.
func RenderPDF(html string) ([]byte, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetContent(html); err != nil {
		return nil, fmt.Errorf("set letter content: %w", err)
	}

	pdf, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdf, nil
}
