package main

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"strings"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	gcolor "github.com/gookit/color"

	"messaging-kit/images"
	"messaging-kit/repositories"
	"messaging-kit/services"
)

type app struct {
	config Config
	log    *slog.Logger
}

// withService opens BadgerDB and the Bluge index, runs fn, then closes both.
func (a *app) withService(fn func(svc *services.MessageService) error) error {
	db, err := badger.Open(badger.DefaultOptions(a.config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		a.log.Debug("Closing BadgerDB...")
		_ = db.Close()
	}()

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(a.config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		a.log.Debug("Closing Bluge writer...")
		_ = writer.Close()
	}()

	repository := repositories.NewMessageRepository(db, a.log, a.config.LimitMessages)
	index := repositories.NewMessageIndex(writer, a.log)
	return fn(services.NewMessageService(a.log, repository, index, nil))
}

// imageService serves the commands that never touch storage.
func (a *app) imageService() *services.MessageService {
	return services.NewMessageService(a.log, nil, nil, nil)
}

func (a *app) format() (images.Format, error) {
	return images.ParseFormat(a.config.ImageFormat)
}

func readImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return images.Decode(data)
}

// parseColor reads "#rrggbb" or "#rgb" with an alpha in [0, 255].
func parseColor(hex string, alpha int) (color.NRGBA, error) {
	rgb := gcolor.HexToRgb(strings.TrimSpace(hex))
	if len(rgb) != 3 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q, expected #rrggbb", hex)
	}
	if alpha < 0 || alpha > 255 {
		return color.NRGBA{}, fmt.Errorf("alpha must be within [0, 255], got %d", alpha)
	}
	return color.NRGBA{R: uint8(rgb[0]), G: uint8(rgb[1]), B: uint8(rgb[2]), A: uint8(alpha)}, nil
}
