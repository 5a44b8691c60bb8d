// Package schema describes state charts: the YAML or JSON documents that
// declare a character's state tree and the behavior bound to each node.
//
// A chart is loaded with Load or Parse, checked with Validate and turned
// into an engine tree with Compile:
//
//	chart, err := schema.Load("tok.yaml")
//	if err != nil {
//		return err
//	}
//	spec, err := schema.Compile(chart, behaviors)
//
// Behavior parameters are plain maps in the chart. Params describes the
// fields a behavior accepts, and DecodeParams fills a behavior struct from
// them using mapstructure tags.
package schema
