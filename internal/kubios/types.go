package kubios

// connection settings for the Kubios Cloud API
type Config struct {
	LoginURL    string
	APIBaseURL  string
	ClientID    string
	RedirectURI string
	UserAgent   string
}

// outcome of a successful password-grant handshake
type LoginResult struct {
	IDToken   string
	ExpiresIn int // seconds
}

// remote profile returned by the Kubios user endpoint
type UserProfile struct {
	Email      string  `json:"email"`
	GivenName  string  `json:"given_name"`
	FamilyName string  `json:"family_name"`
	BirthDate  string  `json:"birthdate"`
	Gender     string  `json:"gender"`
	Height     float64 `json:"height"`
	Weight     float64 `json:"weight"`
}

type userInfoResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	User    UserProfile `json:"user"`
}

// raw measurement list shape of the Kubios results endpoint
type ResultsResponse struct {
	Results []Measurement `json:"results"`
}

type Measurement struct {
	DailyResult       string            `json:"daily_result"`
	MeasuredTimestamp string            `json:"measured_timestamp"`
	Result            MeasurementValues `json:"result"`
}

type MeasurementValues struct {
	StressIndex      *float64 `json:"stress_index"`
	Readiness        *float64 `json:"readiness"`
	PhysiologicalAge *float64 `json:"physiological_age"`
	MeanHRBPM        *float64 `json:"mean_hr_bpm"`
	SDNNMS           *float64 `json:"sdnn_ms"`
}

// flattened per-day view served to the frontend and stored locally
type DailySummary struct {
	Date             string   `json:"date"`
	StressIndex      *float64 `json:"stress_index"`
	Readiness        *float64 `json:"readiness"`
	PhysiologicalAge *float64 `json:"physiological_age"`
	MeanHRBPM        *float64 `json:"mean_hr_bpm"`
	SDNNMS           *float64 `json:"sdnn_ms"`
}
