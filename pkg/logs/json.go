package logs

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

var parserPool fastjson.ParserPool

// parseMessage decodes the JSON message of a v4.1.0 or v4.2.0 record. The
// returned value is only valid until p is reused.
func parseMessage(p *fastjson.Parser, message string) (*fastjson.Object, error) {
	v, err := p.Parse(message)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedJSON, "aborted after invalid JSON log message '%s' (%s)", message, err)
	}
	obj, err := v.Object()
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedJSON, "aborted after non-object JSON log message '%s'", message)
	}
	return obj, nil
}

// decodeEntry adds the pose and sensor readings of a decoded message. Other
// keys are ignored.
func (d *decoder) decodeEntry(obj *fastjson.Object, t time.Time) error {
	var err error
	obj.Visit(func(key []byte, v *fastjson.Value) {
		if err != nil {
			return
		}
		switch string(key) {
		case "pose":
			err = d.decodePose(v, t)
		case "sensor":
			err = d.decodeSensor(v, t)
		}
	})
	return err
}

// {"p": [<easting>, <northing>, <altitude>], "zone": "17North", ...}
func (d *decoder) decodePose(v *fastjson.Value, t time.Time) error {
	p := v.GetArray("p")
	if len(p) < 3 {
		return errors.Wrapf(ErrUnparsableRecord, "pose %s has no position", v)
	}
	position := make([]float64, 3)
	for i := range position {
		f, err := number(p[i])
		if err != nil {
			return errors.Wrapf(ErrUnparsableRecord, "pose %s (%s)", v, err)
		}
		position[i] = f
	}
	zone, err := d.zones.lookup(string(v.GetStringBytes("zone")))
	if err != nil {
		return err
	}
	d.out.addPose(PoseRecord{
		Time:     t,
		Easting:  position[0],
		Northing: position[1],
		Altitude: position[2],
		Zone:     zone.number,
		North:    zone.north,
	})
	return nil
}

// {"type": "ES2", "data": [<ec>, <temperature>]}
func (d *decoder) decodeSensor(v *fastjson.Value, t time.Time) error {
	sensorType := string(v.GetStringBytes("type"))
	if sensorType == "" {
		return errors.Wrapf(ErrUnparsableRecord, "sensor %s has no type", v)
	}
	data := v.Get("data")
	if data == nil {
		return errors.Wrapf(ErrUnparsableRecord, "sensor %s has no data", v)
	}
	var values []float64
	switch data.Type() {
	case fastjson.TypeArray:
		items, _ := data.Array()
		values = make([]float64, len(items))
		for i, item := range items {
			f, err := number(item)
			if err != nil {
				return errors.Wrapf(ErrUnparsableRecord, "sensor %s (%s)", v, err)
			}
			values[i] = f
		}
	default:
		f, err := number(data)
		if err == nil {
			values = []float64{f}
			break
		}
		// Older servers send a space separated string.
		b, err := data.StringBytes()
		if err != nil {
			return errors.Wrapf(ErrUnparsableRecord, "sensor %s (%s)", v, err)
		}
		if values, err = parseFloats(strings.Fields(string(b))...); err != nil {
			return errors.Wrapf(ErrUnparsableRecord, "sensor %s (%s)", v, err)
		}
	}
	if len(values) == 0 {
		return errors.Wrapf(ErrUnparsableRecord, "sensor %s has empty data", v)
	}
	d.out.add(Entry{Time: t, Channel: sensorType, Values: values})
	return nil
}

// number accepts JSON numbers and numeric strings.
func number(v *fastjson.Value) (float64, error) {
	switch v.Type() {
	case fastjson.TypeNumber:
		return v.Float64()
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	default:
		return 0, errors.Errorf("%s is not a number", v)
	}
}
