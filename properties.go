package proptext

import (
	"io"

	"github.com/magiconair/properties"
)

// writeProperties renders props as a Java-style .properties file. Later
// duplicates overwrite earlier ones in place.
func writeProperties(w io.Writer, props []Property) error {
	if len(props) == 0 {
		return nil
	}
	p := properties.NewProperties()
	p.DisableExpansion = true
	for _, prop := range props {
		if _, _, err := p.Set(prop.Path, prop.Value); err != nil {
			return err
		}
	}
	_, err := p.Write(w, properties.UTF8)
	return err
}

// readProperties loads a .properties file, keeping keys in file order.
// ${...} references are left unexpanded.
func readProperties(r io.Reader) ([]Property, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := l.LoadBytes(buf)
	if err != nil {
		return nil, err
	}
	keys := p.Keys()
	if len(keys) == 0 {
		return nil, nil
	}
	props := make([]Property, 0, len(keys))
	for _, k := range keys {
		v, _ := p.Get(k)
		props = append(props, Property{Path: k, Value: v})
	}
	return props, nil
}
