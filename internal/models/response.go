package models

import "encoding/json"

// Stat is one labelled figure of a response.
type Stat struct {
	Key   string
	Value string
}

// Stats keeps response figures in presentation order.
type Stats []Stat

func (s Stats) Get(key string) (string, bool) {
	for _, st := range s {
		if st.Key == key {
			return st.Value, true
		}
	}
	return "", false
}

func (s Stats) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(s), func(i int) (string, any) {
		return s[i].Key, s[i].Value
	})
}

func (s *Stats) UnmarshalJSON(data []byte) error {
	var out Stats
	err := decodeOrderedObject(data, func(key string, dec *json.Decoder) error {
		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}
		out = append(out, Stat{Key: key, Value: value})
		return nil
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// Response is the structured answer to one question.
type Response struct {
	Intent         string   `json:"intent"`
	Answer         string   `json:"answer"`
	Stats          Stats    `json:"stats"`
	Pattern        string   `json:"pattern"`
	Recommendation string   `json:"recommendation"`
	Confidence     int      `json:"confidence"`
	EntitiesUsed   []string `json:"entities_used"`
	ChartType      string   `json:"chart_type,omitempty"`
}
