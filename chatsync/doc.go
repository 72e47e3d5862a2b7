// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

// Package chatsync is the client-side session synchronization core: it
// keeps a consistent view of who is signed in, which chats and contacts
// exist, which chat is open and what it contains, across asynchronous
// calls to the backend.
//
// [Core] owns all of that state behind one mutex that is never held
// across a network call. Its operations fall into four groups:
//
//   - Session: [Core.Start], [Core.ResolveSession],
//     [Core.CompleteAuthentication], [Core.Login], [Core.Register],
//     [Core.SendCode], [Core.UpdateProfile], [Core.UploadAvatar] and
//     [Core.Logout].
//   - Directory: [Core.RefreshChats], [Core.RefreshContacts],
//     [Core.RefreshAdminUsers] and [Core.Search]. Each replaces its
//     slice wholesale; none is ever patched from a local delta.
//   - Conversation: [Core.SelectChat], [Core.RefreshMessages],
//     [Core.CreateChat], [Core.SendMessage] and [Core.AddContact].
//   - Administration: [Core.Ban], [Core.Unban] and [Core.SetRole],
//     guarded by [CanAdminister] on every call.
//
// Every write is followed by a re-fetch of the lists it affects. The
// client never predicts the server's answer; it asks again.
//
// Interleaving is handled with three guards. A session epoch, bumped at
// logout or token rejection, invalidates every in-flight fetch started
// before it, and a session-scoped context is canceled at the same
// moment so those requests abort. A search generation lets only the
// latest query write results. Message fetches apply only while their
// chat is still the selected one and no newer fetch has started.
//
// Failures of read operations degrade to an empty list and a log
// warning. Failures of write operations are reported through the
// [Notifier] and leave state unchanged. A 401 from any call ends the
// session.
package chatsync
