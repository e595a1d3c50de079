// Package hcl implements config.Loader for HCL launcher files.
//
// A file is decoded with gohcl into the schema structs in this package, whose
// fields are pointers or nil-able slices so that an absent attribute can be
// told apart from a zero value. The decoded schema is then translated onto
// config.Default(), so a file only needs to mention what it changes:
//
//	interpreter {
//	  command = env("PYTHON", "python")
//	}
//
//	service "backend" {
//	  entry = "livetalking_backend_v2.py"
//	  port  = 8000
//	}
//
//	readiness {
//	  mode  = "sleep"
//	  delay = "5s"
//	}
//
// Expressions may call env(name, fallback), upper, lower, format and join,
// and may reference launch_dir, the directory containing the file.
package hcl
