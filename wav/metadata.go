package wav

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/tidwall/gjson"
)

// Metadata is the subset of an ffprobe report the indexing pipeline reads:
// container tags (for title/artist/album fallback) plus the first audio
// stream's native format.
type Metadata struct {
	Title      string
	Artist     string
	Album      string
	SampleRate int
	Channels   int
}

// GetMetadata shells out to ffprobe for a full-format JSON report and picks
// fields out of the raw document with gjson/jsonparser rather than
// unmarshaling into a struct that mirrors ffprobe's (large, mostly unused)
// schema — the same "ask ffprobe, don't hand-roll a parser" approach
// GetAudioDuration already takes for the single duration field.
func GetMetadata(inputPath string) (Metadata, error) {
	cmd := exec.Command(
		"ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	)

	out, err := cmd.Output()
	if err != nil {
		return Metadata{}, fmt.Errorf("ffprobe metadata query failed: %v", err)
	}

	doc := string(out)
	meta := Metadata{
		Title:  firstTag(doc, "title"),
		Artist: firstTag(doc, "artist"),
		Album:  firstTag(doc, "album"),
	}

	_, _ = jsonparser.ArrayEach([]byte(doc), func(stream []byte, dataType jsonparser.ValueType, offset int, err error) {
		if err != nil || meta.SampleRate != 0 {
			return
		}
		codecType, _ := jsonparser.GetString(stream, "codec_type")
		if codecType != "audio" {
			return
		}
		if sr, serr := jsonparser.GetString(stream, "sample_rate"); serr == nil {
			fmt.Sscanf(sr, "%d", &meta.SampleRate)
		}
		if ch, cerr := jsonparser.GetInt(stream, "channels"); cerr == nil {
			meta.Channels = int(ch)
		}
	}, "streams")

	return meta, nil
}

// firstTag reads format.tags.<key> (case-insensitively, ffprobe's own tag
// casing varies by container) out of the raw ffprobe JSON document.
func firstTag(doc, key string) string {
	tags := gjson.Get(doc, "format.tags")
	if !tags.Exists() {
		return ""
	}
	var found string
	tags.ForEach(func(k, v gjson.Result) bool {
		if strings.EqualFold(k.String(), key) {
			found = v.String()
			return false
		}
		return true
	})
	return found
}
