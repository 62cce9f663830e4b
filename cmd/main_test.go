package main

import (
	"bytes"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"messaging-kit/domain/mimetypes"
	"messaging-kit/images"
)

func newTestApp(t *testing.T) *app {
	dir := t.TempDir()
	return &app{
		config: Config{
			LogLevel:       "ERROR",
			BadgerFilepath: filepath.Join(dir, "badger"),
			BlugeFilepath:  filepath.Join(dir, "bluge"),
			ImageFormat:    "png",
			AvatarSize:     16,
			SearchLimit:    10,
		},
		log: logs.GetLoggerFromLevel(slog.LevelError),
	}
}

func execute(t *testing.T, a *app, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand(a)
	root.SetOut(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestPost_Then_Browse_And_Search(t *testing.T) {
	req := require.New(t)
	a := newTestApp(t)

	req.Contains(execute(t, a, "text", "alice", "meet", "me", "at", "the", "harbour"), "posted")
	req.Contains(execute(t, a, "text", "bob", "running", "late"), "text/plain")

	history := execute(t, a, "history")
	req.Contains(history, "alice")
	req.Contains(history, "running late")

	found := execute(t, a, "search", "harbour")
	req.Contains(found, "alice")
	req.NotContains(found, "bob")
}

func TestPost_Image_File(t *testing.T) {
	req := require.New(t)
	a := newTestApp(t)

	path := filepath.Join(t.TempDir(), "pic.png")
	data, err := images.Encode(images.FilledWithColor(color.White, 6, 4), images.FormatPNG)
	req.NoError(err)
	req.NoError(os.WriteFile(path, data, 0o644))

	req.Contains(execute(t, a, "image", "carol", path), "image/png")
	req.Contains(execute(t, a, "history"), "<image 6x4>")
}

func TestAvatar_And_Decode(t *testing.T) {
	req := require.New(t)
	a := newTestApp(t)

	encoded := strings.TrimSpace(execute(t, a, "avatar", "#ff8800", "--size", "20"))
	img, err := images.DecodeBase64ToImage(encoded)
	req.NoError(err)
	req.Equal(20, img.Bounds().Dx())

	out := filepath.Join(t.TempDir(), "avatar.png")
	execute(t, a, "decode", encoded, "--out", out)
	written, err := os.ReadFile(out)
	req.NoError(err)
	decoded, err := images.Decode(written)
	req.NoError(err)
	req.True(images.Equal(img, decoded))
}

func TestDecode_Default_Output_Follows_Image_Format(t *testing.T) {
	testCases := []struct {
		name        string
		imageFormat string
		expected    string
		mime        mimetypes.MIME
	}{
		{"png", "png", "decoded.png", mimetypes.ImagePNG},
		{"jpeg", "jpeg", "decoded.jpg", mimetypes.ImageJPEG},
		{"jpg alias", "jpg", "decoded.jpg", mimetypes.ImageJPEG},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			a := newTestApp(t)
			a.config.ImageFormat = tc.imageFormat
			encoded, err := images.EncodeToBase64(images.FilledWithColor(color.NRGBA{R: 10, G: 200, B: 30, A: 255}, 8, 8))
			req.NoError(err)

			t.Chdir(t.TempDir())
			execute(t, a, "decode", encoded)

			written, err := os.ReadFile(tc.expected)
			req.NoError(err)
			req.Equal(tc.mime, mimetypes.Detect(written))
			format, err := a.format()
			req.NoError(err)
			req.Equal(format.Extension(), filepath.Ext(tc.expected))
			decoded, err := images.Decode(written)
			req.NoError(err)
			req.Equal(8, decoded.Bounds().Dx())
		})
	}
}

func TestRound_And_Tint(t *testing.T) {
	req := require.New(t)
	a := newTestApp(t)

	path := filepath.Join(t.TempDir(), "square.png")
	data, err := images.Encode(images.FilledWithColor(color.NRGBA{B: 255, A: 255}, 10, 10), images.FormatPNG)
	req.NoError(err)
	req.NoError(os.WriteFile(path, data, 0o644))

	rounded, err := images.DecodeBase64ToImage(strings.TrimSpace(execute(t, a, "round", path, "--radius", "5")))
	req.NoError(err)
	req.Equal(uint8(0), images.AsRaster(rounded).PixelAt(0, 0).A)

	tinted, err := images.DecodeBase64ToImage(strings.TrimSpace(execute(t, a, "tint", path, "#ff0000")))
	req.NoError(err)
	req.Equal(color.NRGBA{R: 255, A: 255}, images.AsRaster(tinted).PixelAt(3, 3))
}

func TestParseColor(t *testing.T) {
	req := require.New(t)

	c, err := parseColor("#102030", 128)
	req.NoError(err)
	req.Equal(color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 128}, c)

	c, err = parseColor("fff", 255)
	req.NoError(err)
	req.Equal(color.NRGBA{R: 255, G: 255, B: 255, A: 255}, c)

	_, err = parseColor("#zzzzzz", 255)
	req.Error(err)

	_, err = parseColor("#000000", 300)
	req.Error(err)
}
