package ui

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"foodwagen/internal/util"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qeesung/image2ascii/convert"
)

const (
	previewTimeout  = 8 * time.Second
	maxPreviewBytes = 8 << 20
)

// previewLoadedMsg carries the ASCII rendering of a food image.
type previewLoadedMsg struct {
	url string
	art string
	err error
}

// loadPreviewCmd downloads the image at url and renders it as ASCII art.
func loadPreviewCmd(client *http.Client, url string, width, height int) tea.Cmd {
	return func() tea.Msg {
		if !util.IsValidURL(url) {
			return previewLoadedMsg{url: url, err: fmt.Errorf("invalid image URL")}
		}
		img, err := fetchImage(client, url)
		if err != nil {
			return previewLoadedMsg{url: url, err: err}
		}
		return previewLoadedMsg{url: url, art: convertToASCII(img, width, height)}
	}
}

func fetchImage(client *http.Client, url string) (image.Image, error) {
	if client == nil {
		client = http.DefaultClient
	}

	ctx, cancel := context.WithTimeout(context.Background(), previewTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch failed: status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxPreviewBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode error: %w", err)
	}
	return img, nil
}

// convertToASCII converts an image to colored ASCII art.
func convertToASCII(img image.Image, targetWidth, targetHeight int) string {
	converter := convert.NewImageConverter()

	opts := convert.DefaultOptions
	opts.FixedWidth = targetWidth
	opts.FixedHeight = targetHeight
	opts.FitScreen = false
	opts.Colored = true // Use ANSI colors
	opts.Ratio = 0.5    // Adjust for terminal character aspect ratio

	return converter.Image2ASCIIString(img, &opts)
}
