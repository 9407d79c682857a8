package ccb

import (
	"encoding/xml"
	"strconv"
	"strings"

	"ccb-bridge/internal/domain"
)

/*
Typical CCB envelope:

<ccb_api>
  <request>...</request>
  <response>
    <service>individual_search</service>
    <individuals count="1">
      <individual id="48">
        <campus id="1">Hunter Park</campus>
        <first_name>Jane</first_name>
        <last_name>Doe</last_name>
        <email>jane@x.com</email>
        <phones>
          <phone type="contact">555-1111</phone>
          <phone type="mobile">555-1111</phone>
        </phones>
      </individual>
    </individuals>
  </response>
</ccb_api>

Failures keep HTTP 200 and carry <response><errors><error .../></errors>.
*/

type Response struct {
	XMLName xml.Name     `xml:"ccb_api"`
	Body    ResponseBody `xml:"response"`
}

type ResponseBody struct {
	Service     string         `xml:"service"`
	Errors      *ErrorList     `xml:"errors"`
	Individuals IndividualList `xml:"individuals"`
}

type ErrorList struct {
	Errors []APIError `xml:"error"`
}

func (l *ErrorList) Error() string {
	if l == nil || len(l.Errors) == 0 {
		return "ccb: error collection present"
	}
	parts := make([]string, 0, len(l.Errors))
	for _, e := range l.Errors {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// APIError is one <error> entry of a response's error collection.
type APIError struct {
	Number  string `xml:"number,attr"`
	Type    string `xml:"type,attr"`
	Message string `xml:",chardata"`
}

func (e APIError) Error() string {
	msg := strings.TrimSpace(e.Message)
	switch {
	case e.Number != "" && e.Type != "":
		return "ccb error " + e.Number + " (" + e.Type + "): " + msg
	case e.Number != "":
		return "ccb error " + e.Number + ": " + msg
	default:
		return "ccb error: " + msg
	}
}

type IndividualList struct {
	CountAttr   string       `xml:"count,attr"`
	Individuals []Individual `xml:"individual"`
}

// Count parses the count attribute; anything unparsable is 0.
func (l IndividualList) Count() int {
	n, err := strconv.Atoi(strings.TrimSpace(l.CountAttr))
	if err != nil {
		return 0
	}
	return n
}

// First returns the first listed individual when the count is positive.
func (l IndividualList) First() (Individual, bool) {
	if l.Count() <= 0 || len(l.Individuals) == 0 {
		return Individual{}, false
	}
	return l.Individuals[0], true
}

type Individual struct {
	ID        string  `xml:"id,attr"`
	Campus    Campus  `xml:"campus"`
	FirstName string  `xml:"first_name"`
	LastName  string  `xml:"last_name"`
	Email     string  `xml:"email"`
	Phones    []Phone `xml:"phones>phone"`
}

type Campus struct {
	ID   string `xml:"id,attr"`
	Name string `xml:",chardata"`
}

type Phone struct {
	Type   string `xml:"type,attr"`
	Number string `xml:",chardata"`
}

// phone prefers mobile, then contact, then any non-empty number.
func (i Individual) phone() string {
	byType := map[string]string{}
	var fallback string
	for _, p := range i.Phones {
		n := strings.TrimSpace(p.Number)
		if n == "" {
			continue
		}
		byType[strings.ToLower(p.Type)] = n
		if fallback == "" {
			fallback = n
		}
	}
	if n := byType["mobile"]; n != "" {
		return n
	}
	if n := byType["contact"]; n != "" {
		return n
	}
	return fallback
}

func (i Individual) toPerson() domain.Person {
	return domain.Person{
		ID:         strings.TrimSpace(i.ID),
		FirstName:  strings.TrimSpace(i.FirstName),
		LastName:   strings.TrimSpace(i.LastName),
		Email:      strings.TrimSpace(i.Email),
		Phone:      i.phone(),
		CampusID:   strings.TrimSpace(i.Campus.ID),
		CampusName: strings.TrimSpace(i.Campus.Name),
	}
}

func toPeople(list IndividualList) []domain.Person {
	if len(list.Individuals) == 0 {
		return nil
	}
	out := make([]domain.Person, 0, len(list.Individuals))
	for _, i := range list.Individuals {
		out = append(out, i.toPerson())
	}
	return out
}
