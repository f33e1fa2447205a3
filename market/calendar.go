package market

// Calendar is the ordered sequence of scheduled trading dates for a
// simulation window. It is supplied by the caller, never inferred.
type Calendar []Date

// Index returns the position of d in the calendar, or -1.
func (c Calendar) Index(d Date) int {
	for i, cd := range c {
		if cd == d {
			return i
		}
	}
	return -1
}

// Window returns the sub-calendar with dates in [start, end]. Zero values
// leave the corresponding bound open.
func (c Calendar) Window(start, end Date) Calendar {
	var out Calendar
	for _, d := range c {
		if start != "" && d.Before(start) {
			continue
		}
		if end != "" && d.After(end) {
			continue
		}
		out = append(out, d)
	}
	return out
}
