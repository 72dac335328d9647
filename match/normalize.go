package match

import (
	"regexp"
	"strings"
)

// Patterns are compiled once at package init; normalization runs once per
// discovered directory and once per search, so shared compiled state is enough.
var (
	// Bracketed release-group tags, e.g. 【RPG】 or [FitGirl Repack].
	prefixPatterns = []*regexp.Regexp{
		regexp.MustCompile(`【[^】]*】`),
		regexp.MustCompile(`\[[^\]]*\]`),
	}

	// Version markers, with an optional letter suffix (v1.0b, ver.2.1.3a).
	// An underscore counts as a marker start, since \b never fires between
	// word characters ("Title_v1.2").
	versionRemovalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:\b|_)ver\.?\s*\d+(?:\.\d+)*[a-z]*`),
		regexp.MustCompile(`(?i)(?:\b|_)v\.?\s*\d+(?:\.\d+)*[a-z]*`),
		regexp.MustCompile(`_\d+(?:\.\d+)+[a-z]*`),
		regexp.MustCompile(`\d+(?:\.\d+)+[a-z]*$`),
	}

	// Version markers with the number captured, for ExtractVersion.
	versionCapturePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:\b|_)ver\.?\s*(\d+(?:\.\d+)*)`),
		regexp.MustCompile(`(?i)(?:\b|_)v\.?\s*(\d+(?:\.\d+)*)`),
		regexp.MustCompile(`_(\d+(?:\.\d+)+)`),
		regexp.MustCompile(`(\d+(?:\.\d+)+)$`),
	}

	// Platform and architecture tags. Bare platform words are only stripped
	// when they carry a 版 suffix or sit at the end as a separated token, so
	// a title that legitimately contains "Windows" is left alone.
	platformPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:PC|Windows|Mac(?:OS)?|Linux|Android|iOS)版`),
		regexp.MustCompile(`(?i)[\s_-](?:x86|x64|win32|win64|amd64|arm64)\b`),
		regexp.MustCompile(`(?i)[\s_-](?:PC|Windows|MacOS|Linux)$`),
	}

	// Localization tags common in scene folder names.
	suffixPatterns = []*regexp.Regexp{
		regexp.MustCompile(`AI汉化$`),
		regexp.MustCompile(`汉化版?$`),
		regexp.MustCompile(`中文版?$`),
		regexp.MustCompile(`官中$`),
	}

	// Launchable and archive extensions; plain filepath.Ext would also eat
	// a trailing ".5" out of "Game v1.5".
	extensionPattern = regexp.MustCompile(`(?i)\.(?:exe|bat|cmd|com|lnk|app)$`)

	separatorRun = regexp.MustCompile(`[_\s]+`)
)

// Normalize strips version tokens, platform and architecture tags, bracketed
// release-group markers and launchable extensions from a raw game name, then
// collapses separator runs into single spaces. Case is preserved. Passes
// repeat until the string stops changing, so Normalize(Normalize(x)) ==
// Normalize(x). If stripping would leave nothing, the trimmed input is
// returned instead.
func Normalize(raw string) string {
	result := raw

	// One pass can expose new trailing tokens (a platform tag hiding a
	// trailing version number), so iterate to a fixpoint.
	for range 8 {
		next := normalizeOnce(result)
		if next == result {
			break
		}
		result = next
	}

	if result == "" {
		return strings.TrimSpace(raw)
	}
	return result
}

func normalizeOnce(s string) string {
	s = extensionPattern.ReplaceAllString(s, "")

	for _, re := range prefixPatterns {
		s = re.ReplaceAllString(s, "")
	}
	for _, re := range versionRemovalPatterns {
		s = re.ReplaceAllString(s, "")
	}
	for _, re := range platformPatterns {
		s = re.ReplaceAllString(s, "")
	}
	for _, re := range suffixPatterns {
		s = re.ReplaceAllString(s, "")
	}

	s = separatorRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "_ .~-")
	return strings.TrimSpace(s)
}

// ExtractVersion pulls a version number out of a raw directory name.
// Supported shapes: "ver.1.0", "v1.0", "Game_1.5", trailing "1.0.0".
// Returns "" when no version marker is present.
func ExtractVersion(raw string) string {
	for _, re := range versionCapturePatterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			return m[1]
		}
	}
	return ""
}
