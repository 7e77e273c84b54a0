// Package atecc is a driver for the MicrochipTech ATECC608 device in Go.
//
// It supports communication using I²C and USB.
//
// This code is based on MicrochipTech's Cryptoauthlib code, thus its original
// copyright is retained for this code.
//
// Copyright (c) 2022 Northvolt AB and the atecc authors.
// Copyright (c) 2015-2022 Microchip Technology Inc. and its subsidiaries.
//
// # Datasheets
//
// Find all datasheets in the Trust Platform Design Suite git repository.
// https://github.com/MicrochipTech/cryptoauth_trustplatform_designsuite/
package atecc
