package transferatu

// Group is a transferatu group as returned by the service.
type Group struct {
	Name        string  `json:"name"`
	LogInputURL *string `json:"log_input_url"`
	Deleted     bool    `json:"deleted,omitempty"`
}

// Transfer represents a one-time copy between two endpoints.
type Transfer struct {
	UUID     string  `json:"uuid"`
	FromType string  `json:"from_type"`
	FromURL  string  `json:"from_url"`
	FromName *string `json:"from_name"`
	ToType   string  `json:"to_type"`
	ToURL    string  `json:"to_url"`
	ToName   *string `json:"to_name"`

	// Logs is only populated by a verbose Info call.
	Logs []LogLine `json:"logs,omitempty"`
}

// LogLine is a single transfer log entry.
type LogLine struct {
	CreatedAt string `json:"created_at"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// TransferRequest is the body of a transfer creation.
type TransferRequest struct {
	FromType string  `json:"from_type"`
	FromURL  string  `json:"from_url"`
	FromName *string `json:"from_name,omitempty"`
	ToType   string  `json:"to_type"`
	ToURL    string  `json:"to_url"`
	ToName   *string `json:"to_name,omitempty"`
}

// Schedule is a recurring transfer definition.
type Schedule struct {
	UUID        string   `json:"uuid"`
	Name        string   `json:"name"`
	CallbackURL string   `json:"callback_url"`
	Days        []string `json:"days"`
	Hour        int      `json:"hour"`
	Timezone    string   `json:"timezone"`
}

// AllDays is the default schedule day set.
var AllDays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DefaultTimezone is used when a ScheduleRequest has none.
const DefaultTimezone = "UTC"

// ScheduleRequest is the body of a schedule creation. Empty Days means every
// day and an empty Timezone means UTC.
type ScheduleRequest struct {
	Name        string   `json:"name"`
	CallbackURL string   `json:"callback_url"`
	Hour        int      `json:"hour"`
	Days        []string `json:"days"`
	Timezone    string   `json:"timezone"`
}

func (r ScheduleRequest) withDefaults() ScheduleRequest {
	if len(r.Days) == 0 {
		r.Days = append([]string(nil), AllDays...)
	}
	if r.Timezone == "" {
		r.Timezone = DefaultTimezone
	}
	return r
}
