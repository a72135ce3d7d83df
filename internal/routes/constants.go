package routes

var (
	SignupDurationSecondsBuckets     = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	LoginDurationSecondsBuckets      = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	UserLookupDurationSecondsBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
	CardSearchDurationSecondsBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
)

const (
	// API route constants
	GreetingRouteAPI   = "/{$}"
	UserRouteAPI       = "/api/users/{user_id}"
	CardSearchRouteAPI = "/api/cards/search"
	MetricsRouteAPI    = "/metrics"
	LoginRouteAPI      = "/login"
	SignupRouteAPI     = "/signup"

	// Content-Type constants
	ContentType     = "Content-Type"
	ContentTypeJson = "application/json"

	// message constants
	MsgGreeting          = "Hello World"
	MsgLoginSuccessful   = "Login successful"
	MsgUserCreatedFormat = "User created successfully with ID: %s"

	// limits
	MaxUserIDLength      = 64
	MaxCardSearchResults = 100

	// metrics constants
	GreetingRequestsTotal     = "greeting_requests_total"
	GreetingRequestsTotalHelp = "Total number of greeting requests received"

	UserLookupRequestsTotal       = "user_lookup_requests_total"
	UserLookupRequestsTotalHelp   = "Total number of user lookup requests received"
	UserLookupNotFoundTotal       = "user_lookup_not_found_total"
	UserLookupNotFoundTotalHelp   = "Total number of user lookups for unknown users"
	UserLookupErrorsTotal         = "user_lookup_errors_total"
	UserLookupErrorsTotalHelp     = "Total number of errors during user lookup requests"
	UserLookupDurationSeconds     = "user_lookup_duration_seconds"
	UserLookupDurationSecondsHelp = "Duration of user lookup requests in seconds"

	CardSearchRequestsTotal       = "card_search_requests_total"
	CardSearchRequestsTotalHelp   = "Total number of card search requests received"
	CardSearchErrorsTotal         = "card_search_errors_total"
	CardSearchErrorsTotalHelp     = "Total number of errors during card search requests"
	CardSearchDurationSeconds     = "card_search_duration_seconds"
	CardSearchDurationSecondsHelp = "Duration of card search requests in seconds"

	SignupRequestsTotal       = "signup_requests_total"
	SignupRequestsTotalHelp   = "Total number of signup requests received"
	SignupSuccessTotal        = "signup_success_total"
	SignupSuccessTotalHelp    = "Total number of successful signup requests"
	SignupErrorsTotal         = "signup_errors_total"
	SignupErrorsTotalHelp     = "Total number of errors during signup requests"
	SignupDurationSeconds     = "signup_duration_seconds"
	SignupDurationSecondsHelp = "Duration of signup requests in seconds"
	LoginRequestsTotal        = "login_requests_total"
	LoginRequestsTotalHelp    = "Total number of login requests received"
	LoginSuccessTotal         = "login_success_total"
	LoginSuccessTotalHelp     = "Total number of successful login requests"
	LoginFailedTotal          = "login_failed_total"
	LoginFailedTotalHelp      = "Total number of failed login requests"
	LoginDurationSeconds      = "login_duration_seconds"
	LoginDurationSecondsHelp  = "Duration of login requests in seconds"
	LoginRateLimitedTotal     = "login_rate_limited_total"
	LoginRateLimitedTotalHelp = "Total number of login requests that were rate limited"
)
