package pipeline

// UtilityError indicates a failure while preparing the image through the
// utility resources (download, import, snapshot, registration).
type UtilityError struct {
	Err error
}

func (e *UtilityError) Error() string { return "utility stage: " + e.Err.Error() }
func (e *UtilityError) Unwrap() error { return e.Err }

// TestError indicates the freshly registered image failed its boot test.
type TestError struct {
	Err error
}

func (e *TestError) Error() string { return "image test: " + e.Err.Error() }
func (e *TestError) Unwrap() error { return e.Err }

// DeploymentError indicates the test node could not be deployed at all.
type DeploymentError struct {
	Err error
}

func (e *DeploymentError) Error() string { return "test node deployment: " + e.Err.Error() }
func (e *DeploymentError) Unwrap() error { return e.Err }
