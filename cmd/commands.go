package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"messaging-kit/images"
	"messaging-kit/services"
)

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "msgkit",
		Short:         "Post, browse and search chat messages, and work with message images",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newTextCommand(a),
		newImageCommand(a),
		newDataCommand(a),
		newHistoryCommand(a),
		newSearchCommand(a),
		newAvatarCommand(a),
		newRoundCommand(a),
		newTintCommand(a),
		newDecodeCommand(a),
	)
	return root
}

func newTextCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "text <sender> <text...>",
		Short: "Post a text message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *services.MessageService) error {
				message, err := svc.PostText(cmd.Context(), services.PostTextRequest{
					SenderID: args[0],
					Text:     strings.Join(args[1:], " "),
				})
				if err != nil {
					return err
				}
				printPosted(cmd.OutOrStdout(), message)
				return nil
			})
		},
	}
}

func newImageCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "image <sender> <path>",
		Short: "Post an image message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := readImage(args[1])
			if err != nil {
				return err
			}
			return a.withService(func(svc *services.MessageService) error {
				message, err := svc.PostImage(cmd.Context(), services.PostImageRequest{
					SenderID: args[0],
					Image:    img,
				})
				if err != nil {
					return err
				}
				printPosted(cmd.OutOrStdout(), message)
				return nil
			})
		},
	}
}

func newDataCommand(a *app) *cobra.Command {
	var mimeType string
	cmd := &cobra.Command{
		Use:   "data <sender> <path>",
		Short: "Post a file as a raw message payload",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			return a.withService(func(svc *services.MessageService) error {
				message, err := svc.PostData(cmd.Context(), services.PostDataRequest{
					SenderID: args[0],
					Data:     data,
					MIMEType: mimeType,
				})
				if err != nil {
					return err
				}
				printPosted(cmd.OutOrStdout(), message)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&mimeType, "mime", "", "payload MIME type, sniffed when empty")
	return cmd
}

func newHistoryCommand(a *app) *cobra.Command {
	var cursor string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List messages, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *services.MessageService) error {
				var from *string
				if cursor != "" {
					from = &cursor
				}
				page, err := svc.History(from)
				if err != nil {
					return err
				}
				printMessages(cmd.OutOrStdout(), page.Messages)
				if page.Next != nil {
					printNextCursor(cmd.OutOrStdout(), *page.Next)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&cursor, "cursor", "", "resume after this cursor")
	return cmd
}

func newSearchCommand(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Full-text search over text messages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *services.MessageService) error {
				messages, err := svc.Search(cmd.Context(), strings.Join(args, " "), limit)
				if err != nil {
					return err
				}
				printMessages(cmd.OutOrStdout(), messages)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", a.config.SearchLimit, "maximum number of hits")
	return cmd
}

func newAvatarCommand(a *app) *cobra.Command {
	var size, alpha int
	cmd := &cobra.Command{
		Use:   "avatar <#rrggbb>",
		Short: "Print a circular placeholder avatar as base64",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseColor(args[0], alpha)
			if err != nil {
				return err
			}
			format, err := a.format()
			if err != nil {
				return err
			}
			encoded, err := a.imageService().Avatar(services.AvatarRequest{Color: c, Size: size, Format: format})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return err
		},
	}
	cmd.Flags().IntVar(&size, "size", a.config.AvatarSize, "side of the avatar in pixels")
	cmd.Flags().IntVar(&alpha, "alpha", 255, "alpha of the colour")
	return cmd
}

func newRoundCommand(a *app) *cobra.Command {
	var radius float64
	cmd := &cobra.Command{
		Use:   "round <path>",
		Short: "Round the corners of an image and print it as base64",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := readImage(args[0])
			if err != nil {
				return err
			}
			return printImage(cmd, a, images.WithRoundedCorners(radius, img))
		},
	}
	cmd.Flags().Float64Var(&radius, "radius", 8, "corner radius in pixels")
	return cmd
}

func newTintCommand(a *app) *cobra.Command {
	var alpha int
	cmd := &cobra.Command{
		Use:   "tint <path> <#rrggbb>",
		Short: "Overlay a colour on an image and print it as base64",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := readImage(args[0])
			if err != nil {
				return err
			}
			c, err := parseColor(args[1], alpha)
			if err != nil {
				return err
			}
			return printImage(cmd, a, images.OverlayedWithColor(c, img))
		},
	}
	cmd.Flags().IntVar(&alpha, "alpha", 255, "alpha of the overlay colour")
	return cmd
}

func newDecodeCommand(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "decode <base64>",
		Short: "Decode a base64 image and write it to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := images.DecodeBase64ToImage(args[0])
			if err != nil {
				return err
			}
			format, err := a.format()
			if err != nil {
				return err
			}
			data, err := images.Encode(img, format)
			if err != nil {
				return err
			}
			if out == "" {
				out = defaultOutput(format)
			}
			if err = os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			a.log.Info("Image written", "path", out, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default decoded.png or decoded.jpg, per IMAGE_FORMAT)")
	return cmd
}

// defaultOutput names the decode target after the configured format so the
// extension matches the bytes written.
func defaultOutput(format images.Format) string {
	return "decoded" + format.Extension()
}
