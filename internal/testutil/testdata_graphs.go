package testutil

// AddGraphHCL describes the same program as AddGraph.
const AddGraphHCL = `
	graph "add" {
	  node "start" "start" {}
	  node "push" "three" {
	    value = 3
	  }
	  node "push" "four" {
	    value = 4
	  }
	  node "add" "sum" {
	    input "value(0)" { from = "three" }
	    input "value(1)" { from = "four" }
	  }
	  node "finish" "ret" {
	    input "control" { from = "start" }
	    input "value" { from = "sum" }
	  }
	}
`

// FixnumAddGraphHCL describes the same program as FixnumAddGraph.
const FixnumAddGraphHCL = `
	graph "fixnum_add" {
	  node "start" "start" {}
	  node "arg" "a" {
	    n = 0
	  }
	  node "arg" "b" {
	    n = 1
	  }
	  node "fixnum_add" "sum" {
	    line = 4
	    input "value(0)" { from = "a" }
	    input "value(1)" { from = "b" }
	    input "control" { from = "start" }
	  }
	  node "finish" "ret" {
	    input "control" { from = "sum" }
	    input "value" { from = "sum" }
	  }
	}
`
