// Package provision orchestrates the creation of a client website repository.
//
// A provisioning run derives the repository slug from the production domain,
// creates the repository from the site template, waits for the template
// contents to land, clones or refreshes the local workspace, configures the
// repository variables the infrastructure workflow reads, dispatches that
// workflow and follows it to completion, and finally pushes the stage branch
// to trigger the first deployment. Every step checks existing state before
// acting so an interrupted run can be re-executed without damage, and every
// failure carries the manual commands an operator needs to finish the step
// by hand.
package provision
