/*
Package yaml provides methods to parse event.Metadata specifications
from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"

	"github.com/pbanos/canopy/event"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadMetadata takes a slice of bytes with a metadata specification in
YML and returns the event.Metadata parsed from it or an error.
The YML is expected to be an object with a variables property listing
the feature column names in order, a label property naming the class
column and optionally a weight property naming the initial-weight
column.
*/
func ReadMetadata(md []byte) (*event.Metadata, error) {
	metadata := &struct {
		Variables []string
		Label     string
		Weight    string
	}{}
	err := yaml.Unmarshal(md, metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml metadata: %v", err)
	}
	result := &event.Metadata{
		Variables: metadata.Variables,
		Label:     metadata.Label,
		Weight:    metadata.Weight,
	}
	if err = result.Check(); err != nil {
		return nil, fmt.Errorf("parsing yml metadata: %v", err)
	}
	return result, nil
}

/*
ReadMetadataFromFile takes a filepath string, reads its contents and
uses ReadMetadata to parse it and return the event.Metadata or an
error. If the file indicated by the filepath cannot be opened for
reading an error will be returned.
*/
func ReadMetadataFromFile(filepath string) (*event.Metadata, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata yml file %s: %v", filepath, err)
	}
	metadata, err := ReadMetadata(md)
	if err != nil {
		err = fmt.Errorf("parsing metadata yml file %s: %v", filepath, err)
	}
	return metadata, err
}
