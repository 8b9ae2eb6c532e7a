package config

// Config holds docket configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Server     ServerCfg     `mapstructure:"server" yaml:"server"`
	Document   DocumentCfg   `mapstructure:"document" yaml:"document"`
	Predefined PredefinedCfg `mapstructure:"predefined" yaml:"predefined"`
	QR         QRCfg         `mapstructure:"qr" yaml:"qr"`
	Sessions   SessionsCfg   `mapstructure:"sessions" yaml:"sessions"`
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// DocumentCfg configures page geometry and fonts for every rendered PDF.
type DocumentCfg struct {
	PageSize    string     `mapstructure:"page_size" yaml:"page_size"`     // A3, A4, A5, Letter, Legal
	Orientation string     `mapstructure:"orientation" yaml:"orientation"` // P or L
	Margins     MarginsCfg `mapstructure:"margins" yaml:"margins"`
	Font        FontCfg    `mapstructure:"font" yaml:"font"`
	Author      string     `mapstructure:"author" yaml:"author"`
	Title       string     `mapstructure:"title" yaml:"title"`       // default title for session documents
	Subtitle    string     `mapstructure:"subtitle" yaml:"subtitle"` // default subtitle for session documents
}

// MarginsCfg is in millimetres. Bottom is the page-break threshold.
type MarginsCfg struct {
	Left   float64 `mapstructure:"left" yaml:"left"`
	Top    float64 `mapstructure:"top" yaml:"top"`
	Right  float64 `mapstructure:"right" yaml:"right"`
	Bottom float64 `mapstructure:"bottom" yaml:"bottom"`
}

// FontCfg names TrueType files. Relative paths resolve against the home
// fonts directory; ${ENV_VAR} references are expanded. An empty regular
// path selects the built-in Helvetica, which covers Latin-1 only.
type FontCfg struct {
	Family  string `mapstructure:"family" yaml:"family"`
	Regular string `mapstructure:"regular" yaml:"regular"`
	Bold    string `mapstructure:"bold" yaml:"bold"`
	Italic  string `mapstructure:"italic" yaml:"italic"`
}

// PredefinedCfg locates the predefined link list.
type PredefinedCfg struct {
	Path       string `mapstructure:"path" yaml:"path"` // empty: {home}/predefined.json
	SheetTitle string `mapstructure:"sheet_title" yaml:"sheet_title"`
}

// QRCfg sets QR image defaults. Colors are #RRGGBB.
type QRCfg struct {
	Size       int    `mapstructure:"size" yaml:"size"`
	Level      string `mapstructure:"level" yaml:"level"` // low, medium, high, highest
	Foreground string `mapstructure:"foreground" yaml:"foreground"`
	Background string `mapstructure:"background" yaml:"background"`
}

// SessionsCfg controls idle session cleanup. Values are Go durations.
type SessionsCfg struct {
	IdleTimeout   string `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	SweepInterval string `mapstructure:"sweep_interval" yaml:"sweep_interval"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Document: DocumentCfg{
			PageSize:    "A4",
			Orientation: "P",
			Margins:     MarginsCfg{Left: 10, Top: 10, Right: 10, Bottom: 15},
			Font:        FontCfg{Family: "DejaVu"},
			Title:       "My Document",
		},
		Predefined: PredefinedCfg{
			SheetTitle: "Shared Tools",
		},
		QR: QRCfg{
			Size:       256,
			Level:      "medium",
			Foreground: "#000000",
			Background: "#FFFFFF",
		},
		Sessions: SessionsCfg{
			IdleTimeout:   "2h",
			SweepInterval: "5m",
		},
	}
}
