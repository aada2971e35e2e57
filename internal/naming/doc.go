// Package naming validates folder and file names and picks collision-free
// names for uploads.
//
// All functions are pure. A sibling scope is described by the plain list of
// names already present in it (folder names and file names together).
//
//	if err := naming.ValidateName(input, existing); err != nil {
//	    // errors.Is(err, common.ErrValidation) holds
//	}
//	name := naming.GenerateUniqueFileName("report.pdf", existing) // "report (1).pdf"
package naming
