package main

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/redpost/internal/app"
	"github.com/phrazzld/redpost/internal/domain"
	"github.com/phrazzld/redpost/internal/redact"
	"github.com/phrazzld/redpost/internal/service"
	"github.com/spf13/cobra"
)

var (
	genTopic     string
	genStyle     string
	genLength    string
	genCover     string
	genReference string
	genOut       string
	genShare     bool
	genQuiet     bool
)

// generateCmd generates one post
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a post and its cover",
	Long: `Generates a post for --topic and prints it as JSON.

Cover modes:
  - auto: generate a cover image from the post
  - reference: generate a cover image styled after --reference
  - template: no image; print the text fields of a text-only cover

An inline cover image is written to --out (default cover-<request id>.<ext>).
When image generation fails the fallback image URL is printed instead.

Example:
  redpost generate --topic "秋天的第一杯咖啡" --style emotional --length short`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genTopic, "topic", "t", "", "post topic (required)")
	generateCmd.Flags().StringVar(&genStyle, "style", string(domain.StyleEmotional),
		"style: emotional, educational, promotion, rant")
	generateCmd.Flags().StringVar(&genLength, "length", string(domain.LengthMedium), "length: short, medium, long")
	generateCmd.Flags().StringVar(&genCover, "cover", string(domain.CoverModeAuto),
		"cover mode: auto, reference, template")
	generateCmd.Flags().StringVar(&genReference, "reference", "", "reference image file for --cover reference")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "file for an inline cover image")
	generateCmd.Flags().BoolVar(&genShare, "share", false, "print the share text instead of JSON")
	generateCmd.Flags().BoolVarP(&genQuiet, "quiet", "q", false, "do not render progress")
	_ = generateCmd.MarkFlagRequired("topic")
}

// generateOutput is what generate prints. Image bytes go to a file, not stdout.
type generateOutput struct {
	RequestID string                `json:"request_id"`
	Post      *domain.GeneratedPost `json:"post"`
	Cover     coverOutput           `json:"cover"`
}

type coverOutput struct {
	Kind     domain.CoverKind     `json:"kind"`
	File     string               `json:"file,omitempty"`
	URL      string               `json:"url,omitempty"`
	Fallback bool                 `json:"fallback"`
	Template *domain.CoverSummary `json:"template,omitempty"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var ref *domain.ReferenceImage
	if domain.CoverMode(genCover) == domain.CoverModeReference && genReference != "" {
		img, err := loadReference(genReference)
		if err != nil {
			return err
		}
		ref = img
	}

	req, err := domain.NewGenerationRequest(
		genTopic,
		domain.Style(genStyle),
		domain.Length(genLength),
		domain.CoverMode(genCover),
		ref,
	)
	if err != nil {
		return userError(err)
	}

	application, err := app.New(ctx, cfg, log, appOptions...)
	if err != nil {
		return err
	}
	defer application.Close()

	if !genQuiet {
		stopProgress := renderProgress(application.Emitter, stderr)
		defer stopProgress()
	}

	result, err := application.Generation.Generate(ctx, req)
	if err != nil {
		return userError(err)
	}

	out, err := buildOutput(result, genOut)
	if err != nil {
		return err
	}

	if genShare {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Post.ShareText())
		if err == nil && out.Cover.File != "" {
			fmt.Fprintf(stderr, "cover written to %s\n", out.Cover.File)
		}
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// buildOutput writes an inline cover to outPath and returns what to print.
func buildOutput(result *service.GenerationResult, outPath string) (*generateOutput, error) {
	out := &generateOutput{
		RequestID: result.RequestID.String(),
		Post:      result.Post,
		Cover: coverOutput{
			Kind:     result.Cover.Kind,
			URL:      result.Cover.URL,
			Fallback: result.Cover.Fallback,
			Template: result.Cover.Template,
		},
	}

	if result.Cover.Kind != domain.CoverKindInline {
		return out, nil
	}

	if outPath == "" {
		outPath = "cover-" + out.RequestID + coverExtension(result.Cover.Image.MIMEType)
	}
	if err := os.WriteFile(outPath, result.Cover.Image.Data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write cover: %w", err)
	}
	out.Cover.File = outPath
	return out, nil
}

// coverExtension returns the file extension for an image MIME type.
func coverExtension(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".img"
}

// loadReference reads a reference image, taking the MIME type from the file
// extension or, failing that, from the content.
func loadReference(path string) (*domain.ReferenceImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference image: %w", err)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	mimeType, _, _ = strings.Cut(mimeType, ";")

	img := &domain.ReferenceImage{Data: data, MIMEType: mimeType}
	if err := img.Validate(); err != nil {
		return nil, userError(err)
	}
	return img, nil
}

// cliError shows the user message first and the redacted cause after it.
type cliError struct {
	err error
}

func (e *cliError) Error() string {
	return fmt.Sprintf("%s (%s)", service.UserMessage(e.err), redact.Error(e.err))
}

func (e *cliError) Unwrap() error { return e.err }

func userError(err error) error {
	return &cliError{err: err}
}
