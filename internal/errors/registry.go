package errors

// Error codes surfaced by the routing engine.
const (
	// Navigation conditions.
	CodeRouteNotFound = "ROUTE_NOT_FOUND"
	CodeSameStates    = "SAME_STATES"

	// Transition results.
	CodeCannotDeactivate    = "CANNOT_DEACTIVATE"
	CodeCannotActivate      = "CANNOT_ACTIVATE"
	CodeTransitionErr       = "TRANSITION_ERR"
	CodeTransitionCancelled = "TRANSITION_CANCELLED"
	CodeRedirectLoop        = "REDIRECT_LOOP"

	// Lifecycle misuse.
	CodeNotStarted         = "ROUTER_NOT_STARTED"
	CodeAlreadyStarted     = "ROUTER_ALREADY_STARTED"
	CodeNoStartPathOrState = "NO_START_PATH_OR_STATE"

	// Configuration errors.
	CodeParentNotFound = "PARENT_NOT_FOUND"
	CodePathConflict   = "PATH_CONFLICT"
	CodeMissingParam   = "MISSING_PARAM"
	CodeBuildNotFound  = "BUILD_NOT_FOUND"
	CodeInvalidPattern = "INVALID_PATTERN"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	CodeRouteNotFound: {
		Category: CategoryNavigation,
		Message:  "route not found",
	},
	CodeSameStates: {
		Category: CategoryNavigation,
		Message:  "navigation target equals the current state",
	},

	CodeCannotDeactivate: {
		Category: CategoryTransition,
		Message:  "deactivation denied by guard",
	},
	CodeCannotActivate: {
		Category: CategoryTransition,
		Message:  "activation denied by guard",
	},
	CodeTransitionErr: {
		Category: CategoryTransition,
		Message:  "transition failed",
	},
	CodeTransitionCancelled: {
		Category: CategoryTransition,
		Message:  "transition cancelled",
	},
	CodeRedirectLoop: {
		Category: CategoryTransition,
		Message:  "redirect chain exceeded maximum depth",
	},

	CodeNotStarted: {
		Category: CategoryLifecycle,
		Message:  "router is not started",
	},
	CodeAlreadyStarted: {
		Category: CategoryLifecycle,
		Message:  "router is already started",
	},
	CodeNoStartPathOrState: {
		Category: CategoryLifecycle,
		Message:  "no start path or state provided",
	},

	CodeParentNotFound: {
		Category: CategoryConfig,
		Message:  "parent route segment does not exist",
	},
	CodePathConflict: {
		Category: CategoryConfig,
		Message:  "path pattern collides with a sibling route",
	},
	CodeMissingParam: {
		Category: CategoryConfig,
		Message:  "missing required path parameter",
	},
	CodeBuildNotFound: {
		Category: CategoryConfig,
		Message:  "cannot build path for unknown route",
	},
	CodeInvalidPattern: {
		Category: CategoryConfig,
		Message:  "invalid path pattern",
	},
}
