package properties

import "time"

type PropertyListed struct {
	PropertyID PropertyID
	HostID     string
	City       string
	At         time.Time
}

func (e PropertyListed) EventName() string     { return "property.listed" }
func (e PropertyListed) AggregateID() string   { return string(e.PropertyID) }
func (e PropertyListed) OccurredAt() time.Time { return e.At }
