package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/yuin/goldmark"

	"github.com/ppiankov/evalia/internal/model"
)

// detailLimit caps how many fact-checks the human-readable reports expand
const detailLimit = 5

// Renderer writes the three report artifacts. Markdown and HTML are
// presentation-only; report.json is the canonical contract.
type Renderer struct {
	markdown goldmark.Markdown
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(),
	}
}

// WriteJSON writes the machine-readable report
func (r *Renderer) WriteJSON(result *Result, path string) error {
	data, err := json.MarshalIndent(result.Report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// WriteMarkdown writes the human-readable Markdown summary
func (r *Renderer) WriteMarkdown(result *Result, path string) error {
	return os.WriteFile(path, []byte(r.renderMarkdown(result)), 0644)
}

func (r *Renderer) renderMarkdown(result *Result) string {
	rep := result.Report
	var b strings.Builder

	fmt.Fprintf(&b, "# Evaluation Report\n\n## Query\n%s\n\n", rep.Query)

	fmt.Fprintf(&b, "## Evaluation Score\n")
	fmt.Fprintf(&b, "- **Overall Score**: %.2f/5.00\n", rep.Score.Overall)
	fmt.Fprintf(&b, "- **Accuracy**: %.2f/5.00 (45%% weight)\n", rep.Score.Accuracy)
	fmt.Fprintf(&b, "- **Coverage**: %.2f/5.00 (30%% weight)\n", rep.Score.Coverage)
	fmt.Fprintf(&b, "- **Citations Quality**: %.2f/5.00 (15%% weight)\n", rep.Score.CitationsQuality)
	fmt.Fprintf(&b, "- **Clarity & Structure**: %.2f/5.00 (10%% weight)\n\n", rep.Score.ClarityStructure)

	b.WriteString("## Criteria Extracted\n### Goals\n")
	for _, g := range rep.Criteria.Goals {
		fmt.Fprintf(&b, "- %s\n", g)
	}
	b.WriteString("\n### Must Include\n")
	for _, m := range rep.Criteria.MustInclude {
		fmt.Fprintf(&b, "- %s\n", m)
	}

	fmt.Fprintf(&b, "\n## Fact-Check Results\nTotal claims checked: %d\n\n", len(rep.FactChecks))
	fmt.Fprintf(&b, "### Summary\n")
	fmt.Fprintf(&b, "- [SUPPORTED]: %d\n", rep.CountVerdict(model.VerdictSupported))
	fmt.Fprintf(&b, "- [CONTRADICTED]: %d\n", rep.CountVerdict(model.VerdictContradicted))
	fmt.Fprintf(&b, "- [INSUFFICIENT]: %d\n\n", rep.CountVerdict(model.VerdictInsufficient))

	b.WriteString("### Details\n")
	for i, fc := range rep.FactChecks {
		if i >= detailLimit {
			break
		}
		fmt.Fprintf(&b, "\n#### Claim %d\n", i+1)
		fmt.Fprintf(&b, "**Statement**: %s...\n", truncate(fc.Claim, 100))
		fmt.Fprintf(&b, "**Verdict**: %s (confidence: %.2f)\n", fc.Verdict, fc.Confidence)
		fmt.Fprintf(&b, "**Rationale**: %s\n", fc.Rationale)
	}

	if rep.AutoFixed {
		fmt.Fprintf(&b, "\n## Auto-Fixed Version\nThe original draft scored below %.1f and has been automatically corrected:\n\n%s\n", model.ReviseThreshold, result.FixedDraft)
	}

	b.WriteString("\n## Sources Used for Verification\n")
	seen := make(map[string]bool)
	for _, fc := range rep.FactChecks {
		for _, src := range fc.Sources {
			line := fmt.Sprintf("- [%s](%s)", src.Title, src.URL)
			if !seen[line] {
				seen[line] = true
				b.WriteString(line + "\n")
			}
		}
	}

	return b.String()
}

// WriteHTML writes a styled standalone HTML report with a collapsible
// revised-draft section
func (r *Renderer) WriteHTML(result *Result, path string) error {
	rep := result.Report
	var b strings.Builder

	b.WriteString(htmlHead)

	fmt.Fprintf(&b, "        <h2>Query</h2>\n        <p>%s</p>\n\n", html.EscapeString(rep.Query))

	badge := "score-poor"
	if rep.Score.Overall >= 4 {
		badge = "score-good"
	} else if rep.Score.Overall >= 3 {
		badge = "score-medium"
	}
	fmt.Fprintf(&b, `        <h2>Evaluation Scores</h2>
        <p><span class="score-badge %s">Overall: %.2f/5.00</span></p>
        <ul>
            <li>Accuracy: %.2f/5.00 (45%% weight)</li>
            <li>Coverage: %.2f/5.00 (30%% weight)</li>
            <li>Citations Quality: %.2f/5.00 (15%% weight)</li>
            <li>Clarity &amp; Structure: %.2f/5.00 (10%% weight)</li>
        </ul>
`, badge, rep.Score.Overall, rep.Score.Accuracy, rep.Score.Coverage, rep.Score.CitationsQuality, rep.Score.ClarityStructure)

	fmt.Fprintf(&b, "\n        <h2>Fact-Check Results</h2>\n        <p>Checked %d claims:</p>\n", len(rep.FactChecks))
	for i, fc := range rep.FactChecks {
		if i >= detailLimit {
			break
		}
		fmt.Fprintf(&b, `        <div class="fact-check verdict-%s">
            <strong>Claim %d:</strong> %s...<br>
            <strong>Verdict:</strong> %s (confidence: %.2f)<br>
            <strong>Rationale:</strong> %s
        </div>
`, fc.Verdict, i+1, html.EscapeString(truncate(fc.Claim, 100)), fc.Verdict, fc.Confidence, html.EscapeString(fc.Rationale))
	}

	if rep.AutoFixed {
		var converted bytes.Buffer
		if err := r.markdown.Convert([]byte(result.FixedDraft), &converted); err != nil {
			// Fall back to the raw text, escaped
			converted.Reset()
			converted.WriteString("<pre>" + html.EscapeString(result.FixedDraft) + "</pre>")
		}
		fmt.Fprintf(&b, `        <div class="toggle-section" onclick="toggleSection('fixed')">
            &#9654; Show Auto-Fixed Version
        </div>
        <div id="fixed" class="toggle-content">
            %s
        </div>
`, converted.String())
	}

	b.WriteString(htmlFoot)

	return os.WriteFile(path, []byte(b.String()), 0644)
}

// PrintSummary prints a colored one-screen summary to stdout
func (r *Renderer) PrintSummary(result *Result, outDir string) {
	rep := result.Report

	overall := color.New(color.FgGreen, color.Bold)
	if rep.Score.Overall < model.PoorQualityThreshold {
		overall = color.New(color.FgRed, color.Bold)
	} else if rep.Score.Overall < model.ReviseThreshold {
		overall = color.New(color.FgYellow, color.Bold)
	}

	fmt.Println()
	fmt.Printf("Overall Score: %s\n", overall.Sprintf("%.2f/5.00", rep.Score.Overall))
	fmt.Printf("  Accuracy:           %.2f\n", rep.Score.Accuracy)
	fmt.Printf("  Coverage:           %.2f\n", rep.Score.Coverage)
	fmt.Printf("  Citations Quality:  %.2f\n", rep.Score.CitationsQuality)
	fmt.Printf("  Clarity/Structure:  %.2f\n", rep.Score.ClarityStructure)
	fmt.Println()
	fmt.Printf("Claims checked: %d (%s / %s / %s)\n",
		len(rep.FactChecks),
		color.GreenString("%d supported", rep.CountVerdict(model.VerdictSupported)),
		color.RedString("%d contradicted", rep.CountVerdict(model.VerdictContradicted)),
		color.YellowString("%d insufficient", rep.CountVerdict(model.VerdictInsufficient)))
	if rep.AutoFixed {
		fmt.Printf("Draft auto-fixed: %s\n", color.YellowString("yes"))
	}
	fmt.Printf("Reports saved to: %s\n", outDir)
}

// truncate returns at most n runes of s, never splitting a multi-byte rune
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}

const htmlHead = `<!DOCTYPE html>
<html>
<head>
    <title>Evaluation Report</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            max-width: 900px;
            margin: 0 auto;
            padding: 20px;
            background: #f5f5f5;
        }
        .container {
            background: white;
            padding: 30px;
            border-radius: 10px;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
        }
        h1, h2, h3 { color: #333; }
        .score-badge {
            display: inline-block;
            padding: 5px 15px;
            border-radius: 20px;
            font-weight: bold;
            margin: 5px;
        }
        .score-good { background: #4caf50; color: white; }
        .score-medium { background: #ff9800; color: white; }
        .score-poor { background: #f44336; color: white; }
        .fact-check {
            margin: 10px 0;
            padding: 15px;
            border-left: 4px solid #2196F3;
            background: #f0f8ff;
        }
        .verdict-supported { border-color: #4caf50; background: #e8f5e9; }
        .verdict-contradicted { border-color: #f44336; background: #ffebee; }
        .verdict-insufficient { border-color: #ff9800; background: #fff3e0; }
        pre { background: #f4f4f4; padding: 10px; overflow-x: auto; }
        .toggle-section {
            cursor: pointer;
            user-select: none;
            padding: 10px;
            background: #e0e0e0;
            margin: 10px 0;
        }
        .toggle-content {
            display: none;
            padding: 10px;
            border: 1px solid #ddd;
        }
        .toggle-content.active {
            display: block;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>Evaluation Report</h1>

`

const htmlFoot = `    </div>
    <script>
        function toggleSection(id) {
            const content = document.getElementById(id);
            content.classList.toggle('active');
            const toggle = content.previousElementSibling;
            toggle.textContent = content.classList.contains('active') ?
                '▼ Hide Auto-Fixed Version' : '▶ Show Auto-Fixed Version';
        }
    </script>
</body>
</html>
`
