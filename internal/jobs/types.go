package jobs

type JobType string

const (
	JobExportRegistrationsCSV   JobType = "export_registrations_csv"
	JobExportRegistrationsPrint JobType = "export_registrations_print"
)

// check to see if the job type is a known constant
func (t JobType) IsValid() bool {
	switch t {
	case JobExportRegistrationsCSV, JobExportRegistrationsPrint:
		return true
	default:
		return false
	}
}

// ParseFormat maps the public report format names to job types.
func ParseFormat(format string) (JobType, error) {
	switch format {
	case "csv":
		return JobExportRegistrationsCSV, nil
	case "print", "html":
		return JobExportRegistrationsPrint, nil
	default:
		return "", ErrInvalidJobType
	}
}
