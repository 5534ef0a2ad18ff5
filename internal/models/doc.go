// Package models defines the listbackup REST resources and the local persistence contract.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): plain structs mirroring backend records
//   - [Account], [User] : tenancy and identity
//   - [Source], [Job], [JobRun] : backup sources and the jobs that copy them
//   - [Client], [Team], [TeamMember], [Role] : agency clients and collaboration
//   - [Domain], [Branding] : white-label settings
//   - [SystemHealth], [SystemMetrics], [AuditEvent] : administration
//
// Request bodies carry `validate` tags consumed by the wizard package.
//
// 2. Persistent Entities: locally stored records with full lifecycle management
//   - [StorageEntry] : one platform storage key (session tokens, user data, current account)
//
// Persistent entities implement [Model] (and [Keyed]); [KeyValueRepository] is the contract of their stores.
// Invariants on DTOs (uniqueness, references, state transitions) are enforced by the backend.
package models
