package employee

// UnknownDivision is reported for identifiers missing from the employee table.
const UnknownDivision = "Unknown"

type Employee struct {
	ID       string
	Name     string
	Division string
}

// DivisionMap indexes employees by identifier.
func DivisionMap(employees []Employee) map[string]string {
	m := make(map[string]string, len(employees))
	for _, e := range employees {
		m[e.ID] = e.Division
	}
	return m
}
