package telemetry

import "strings"

//Field is one KEY:VALUE pair of a telemetry line
type Field struct {
	Key   string
	Value string
}

//Decoder splits a chunked text stream into telemetry fields
//lines end with \n, fields are tab separated, a field is KEY:VALUE
type Decoder struct {
	buf string
}

//Feed appends a chunk and returns the fields of every line it completed
//the trailing partial line is kept for the next call
func (d *Decoder) Feed(chunk string) []Field {
	d.buf += chunk
	lines := strings.Split(d.buf, "\n")
	d.buf = lines[len(lines)-1]

	var fields []Field
	for _, line := range lines[:len(lines)-1] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, raw := range strings.Split(line, "\t") {
			parts := strings.Split(raw, ":")
			if len(parts) != 2 {
				continue
			}
			fields = append(fields, Field{
				Key:   strings.TrimSpace(parts[0]),
				Value: switchText(strings.TrimSpace(parts[1])),
			})
		}
	}
	return fields
}

//Pending returns the buffered partial line
func (d *Decoder) Pending() string {
	return d.buf
}

//Reset drops the buffered partial line
func (d *Decoder) Reset() {
	d.buf = ""
}

//switchText reads the 0/1 switch states as booleans
func switchText(v string) string {
	switch v {
	case "1":
		return "true"
	case "0":
		return "false"
	}
	return v
}
