// package formatter renders catalog tool results as JSON, CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/tools"
)

// Format names an output encoding.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// Formats lists the accepted format names.
var Formats = []Format{JSON, CSV, Markdown, Text}

// ParseFormat converts s into a [Format]. "md" and "txt" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Render encodes a shaped tool value in format f.
//
// Supported values are []tools.TrackSummary, *tools.ArtistInfo and *tools.TrackFeatures.
// JSON accepts any value and matches the text returned to tool callers.
func Render(f Format, v any) ([]byte, error) {
	if f == JSON {
		text, err := tools.MarshalText(v)
		if err != nil {
			return nil, err
		}
		return append([]byte(text), '\n'), nil
	}

	switch v := v.(type) {
	case []tools.TrackSummary:
		switch f {
		case CSV:
			return TracksToCSV(v)
		case Markdown:
			return TracksToMarkdown(v), nil
		case Text:
			return TracksToText(v), nil
		}
	case *tools.ArtistInfo:
		switch f {
		case CSV:
			return ArtistToCSV(v)
		case Markdown:
			return ArtistToMarkdown(v), nil
		case Text:
			return ArtistToText(v), nil
		}
	case *tools.TrackFeatures:
		switch f {
		case CSV:
			return FeaturesToCSV(v)
		case Markdown:
			return FeaturesToMarkdown(v), nil
		case Text:
			return FeaturesToText(v), nil
		}
	}

	return nil, fmt.Errorf("%w: cannot render %T as %s", shared.ErrInvalidArgument, v, f)
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

func preview(url *string) string {
	if url == nil {
		return ""
	}
	return *url
}

// TracksToCSV writes one row per track with columns Name, Artist, Album, Popularity, Preview URL, Spotify URL.
func TracksToCSV(tracks []tools.TrackSummary) ([]byte, error) {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{t.Name, t.Artist, t.Album, strconv.Itoa(t.Popularity), preview(t.PreviewURL), t.SpotifyURL})
	}
	return writeCSV([]string{"Name", "Artist", "Album", "Popularity", "Preview URL", "Spotify URL"}, rows)
}

// TracksToMarkdown renders search results as a numbered list with links.
func TracksToMarkdown(tracks []tools.TrackSummary) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Tracks\n\n**Results**: %d\n\n", len(tracks))
	for i, t := range tracks {
		fmt.Fprintf(&buf, "%d. [%s](%s) - %s", i+1, t.Name, t.SpotifyURL, t.Artist)
		if t.Album != "" {
			fmt.Fprintf(&buf, " (%s)", t.Album)
		}
		fmt.Fprintf(&buf, " [popularity %d]\n", t.Popularity)
	}
	return buf.Bytes()
}

// TracksToText renders search results for a terminal.
func TracksToText(tracks []tools.TrackSummary) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n\n", styles.title.Render(fmt.Sprintf("Tracks: %d", len(tracks))))
	for i, t := range tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, t.Artist, styles.label.Render(t.Name))
		fmt.Fprintf(&buf, "   %s\n", styles.muted.Render(fmt.Sprintf("%s · popularity %d · %s", t.Album, t.Popularity, t.SpotifyURL)))
	}
	return buf.Bytes()
}

// ArtistToCSV writes a single-row artist summary. Genres and top tracks are joined with "; ".
func ArtistToCSV(a *tools.ArtistInfo) ([]byte, error) {
	return writeCSV(
		[]string{"Name", "Genres", "Popularity", "Followers", "Top Tracks"},
		[][]string{{a.Name, strings.Join(a.Genres, "; "), strconv.Itoa(a.Popularity), strconv.Itoa(a.FollowerCount), strings.Join(a.TopTracks, "; ")}},
	)
}

// ArtistToMarkdown renders an artist summary with its top tracks.
func ArtistToMarkdown(a *tools.ArtistInfo) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", a.Name)
	if len(a.Genres) > 0 {
		fmt.Fprintf(&buf, "**Genres**: %s\n", strings.Join(a.Genres, ", "))
	}
	fmt.Fprintf(&buf, "**Popularity**: %d\n", a.Popularity)
	fmt.Fprintf(&buf, "**Followers**: %d\n\n", a.FollowerCount)

	buf.WriteString("## Top Tracks\n\n")
	for i, name := range a.TopTracks {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, name)
	}
	return buf.Bytes()
}

// ArtistToText renders an artist summary for a terminal.
func ArtistToText(a *tools.ArtistInfo) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", styles.title.Render(a.Name))
	if len(a.Genres) > 0 {
		fmt.Fprintf(&buf, "Genres: %s\n", strings.Join(a.Genres, ", "))
	}
	fmt.Fprintf(&buf, "Popularity: %d\n", a.Popularity)
	fmt.Fprintf(&buf, "Followers: %d\n\n", a.FollowerCount)

	fmt.Fprintf(&buf, "%s\n", styles.label.Render("Top Tracks"))
	for i, name := range a.TopTracks {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, name)
	}
	return buf.Bytes()
}

func featureRows(f *tools.TrackFeatures) [][]string {
	return [][]string{
		{"danceability", formatFloat(f.Danceability)},
		{"energy", formatFloat(f.Energy)},
		{"valence", formatFloat(f.Valence)},
		{"tempo", formatFloat(f.Tempo)},
		{"loudness", formatFloat(f.Loudness)},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FeaturesToCSV writes the five audio features as feature,value rows.
func FeaturesToCSV(f *tools.TrackFeatures) ([]byte, error) {
	return writeCSV([]string{"Feature", "Value"}, featureRows(f))
}

// FeaturesToMarkdown renders the audio features as a table.
func FeaturesToMarkdown(f *tools.TrackFeatures) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Audio Features\n\n| Feature | Value |\n| --- | --- |\n")
	for _, row := range featureRows(f) {
		fmt.Fprintf(&buf, "| %s | %s |\n", row[0], row[1])
	}
	return buf.Bytes()
}

// FeaturesToText renders the audio features for a terminal.
func FeaturesToText(f *tools.TrackFeatures) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", styles.title.Render("Audio Features"))
	for _, row := range featureRows(f) {
		fmt.Fprintf(&buf, "%-13s %s\n", row[0]+":", row[1])
	}
	return buf.Bytes()
}
