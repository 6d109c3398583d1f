package logical

// CloseSteps exposes closeSteps to the black-box tests.
var CloseSteps = closeSteps
