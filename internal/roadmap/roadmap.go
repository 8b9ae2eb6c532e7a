// Package roadmap holds the built-in "Medical AI + Automation Roadmap" document.
package roadmap

import "github.com/jackzampolin/docket/internal/composer"

// Filename is the suggested download name.
const Filename = "Medical_AI_Roadmap.pdf"

const (
	Title    = "Medical AI + Automation Roadmap"
	Subtitle = "A 3–6 month step-by-step roadmap to build scalable medical tools with Python, Streamlit, and AI"
	Icon     = "🚀"
)

var phases = []composer.Section{
	{
		Title: "Phase 1: Foundation (Weeks 1–4)",
		Body: `Goal: Build a base of reusable Streamlit apps + modular code.

1. Medical Calculators Hub (MVP)
   - Apps: NIHSS, CHADS-BLED, MELD, Ranson.
   - Real-time score calculation
   - QR codes for each calculator
   - Add new calculator via JSON config

2. Patient Dashboard Prototype
   - Inputs for anonymized patient data
   - Show multiple scores per patient
   - MVP: Display trends with charts`,
	},
	{
		Title: "Phase 2: Automation & Sharing (Weeks 5–8)",
		Body: `Goal: Make tools interactive, shareable, and partially automated.

1. Enhanced QR Hub
   - Remove old calculators
   - Auto-generate QR codes
   - Optional color themes

2. AI-Powered Suggestions (MVP)
   - Input labs/vitals → AI suggests score ranges and alerts

3. Training Modules
   - Interactive quiz for residents
   - QR code access for mobile`,
	},
	{
		Title: "Phase 3: Integration & Scaling (Weeks 9–12)",
		Body: `Goal: Combine all apps into a unified ecosystem.

1. Central Dashboard
   - Launch page with all calculators + AI tools
   - Dynamic QR codes for each tool

2. Patient Outcome Tracking
   - Store patient data (SQLite or Google Sheets)
   - Trend reports and export options

3. AI-Driven Insights
   - Summarize patient data
   - Suggest next steps
   - Optional: Auto-generate slides for rounds`,
	},
	{
		Title: "Phase 4: Advanced Automation (Weeks 13–24)",
		Body: `Goal: Fully “broken skill mode”.

1. Hospital Workflow Apps
   - Admit/discharge checklists with QR codes
   - Medication dosing calculators
   - Flag abnormal labs automatically

2. Collaboration Tools
   - Shared dashboards with auto-updating QR codes

3. Research + Reporting Automation
   - Generate draft manuscript tables
   - AI-assisted visualizations
   - QR codes link to interactive dashboards`,
	},
	{
		Title: "Key Principles",
		Body: `- Everything modular: JSON configs → no new code needed.
- Always QR-enabled: share tools instantly.
- MVP first → add AI, automation, reporting later.
- Start with patient data display & scoring → then AI suggestions → full workflow automation.`,
	},
	{
		Title: "Meta Advantage",
		Body: `By Month 3–4, you can have your own mini-hospital tool ecosystem:
- Web-based
- Instantly shareable
- Partially AI-driven
- Saves hours weekly
- Trains residents better
- Real-time decisions faster than old workflows`,
	},
}

// Document returns a fresh copy of the roadmap. The rocket icon is only
// added to the title when withIcon is set; callers decide with
// composer.CanEncode.
func Document(withIcon bool) composer.Document {
	title := Title
	if withIcon {
		title = Icon + " " + Title
	}
	sections := make([]composer.Section, len(phases))
	copy(sections, phases)
	return composer.Document{
		Title:    title,
		Subtitle: Subtitle,
		Sections: sections,
	}
}
