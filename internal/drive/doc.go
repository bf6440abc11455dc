// Package drive provides upload interfaces and implementations for
// publishing report runs to a shared Google Drive folder.
//
// Remote filenames drop the run timestamp so unit website links keep working
// across uploads; same-name files are replaced in place rather than
// duplicated. The real uploader authenticates with a service account and
// requests only the drive.file scope.
package drive
