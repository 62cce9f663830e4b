package main

import (
	"fmt"
	"image"
	"io"
	"strconv"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"messaging-kit/domain"
	"messaging-kit/images"
)

// previewLength caps the content column of message tables.
const previewLength = 48

func printPosted(w io.Writer, message domain.Message) {
	_, _ = fmt.Fprintln(w, color.Green.Sprintf("posted %s (%s, %d bytes)",
		message.ID(), message.MIMEType(), message.Size()))
}

func printNextCursor(w io.Writer, cursor string) {
	_, _ = fmt.Fprintln(w, color.Gray.Sprintf("next page: --cursor %s", cursor))
}

func printMessages(w io.Writer, messages []domain.Message) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Sender", "Sent at", "MIME", "Size", "Content"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, m := range messages {
		table.Append([]string{
			m.ID().String(),
			m.SentByUserID(),
			m.SentAt().Format(time.RFC3339),
			m.MIMEType().String(),
			strconv.Itoa(m.Size()),
			preview(m),
		})
	}
	table.Render()
}

func preview(m domain.Message) string {
	if m.MIMEType().IsText() {
		text, err := m.Text()
		if err != nil {
			return ""
		}
		runes := []rune(text)
		if len(runes) > previewLength {
			return string(runes[:previewLength]) + "…"
		}
		return text
	}
	if m.MIMEType().IsImage() {
		img, err := m.Image()
		if err != nil {
			return "<undecodable image>"
		}
		return fmt.Sprintf("<image %dx%d>", img.Bounds().Dx(), img.Bounds().Dy())
	}
	return fmt.Sprintf("<%s>", m.MIMEType().Kind())
}

func printImage(cmd *cobra.Command, a *app, img image.Image) error {
	format, err := a.format()
	if err != nil {
		return err
	}
	encoded, err := images.EncodeToBase64Format(img, format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), encoded)
	return err
}
