// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package catalog

import "github.com/ffutop/optolink-gateway/optolink"

func bound(v float64) *float64 { return &v }

// Vitocal300G is the table for a Vitocal 300-G with WPR 300 controller
// (VBC700_BW_WW, device ID 2046).
var Vitocal300G = optolink.Catalog{
	Model: "vitocal300g",
	Entries: concat(vitocalStatus, []optolink.Entry{
		{Name: "Test", Address: "0112", Length: 2, Unit: "IS10", Description: "Vorlauftemperatur HK M2 (WPR300), reports 0"},
		{Name: "VorlauftempPrim", Address: "0103", Length: 2, Unit: "IS10", Description: "Vorlauftemperatur primaer (0..95)"},
		{Name: "RuecklauftempPrim", Address: "0104", Length: 2, Unit: "IS10", Description: "Ruecklauftemperatur primaer (0..95)"},
		{Name: "Vorlauftemperatur_HK_M2", Address: "0114", Length: 2, Unit: "IS10"},
	}, vitocalMenu, vitocal300GProbes),
}

// VitocalWO1C is the table for a Vitocal 200-S WO1C.
var VitocalWO1C = optolink.Catalog{
	Model:   "vitocalwo1c",
	Entries: concat(vitocalStatus, vitocalMenu),
}

// vitocalStatus holds the read-only status values both models share.
var vitocalStatus = []optolink.Entry{
	{Name: "Warmwassertemperatur", Address: "010d", Length: 2, Unit: "IS10", Description: "Warmwassertemperatur oben (0..95)"},
	{Name: "Aussentemperatur", Address: "0101", Length: 2, Unit: "IS10", Description: "Aussentemperatur (-40..70)"},
	{Name: "VorlauftempSek", Address: "0105", Length: 2, Unit: "IS10", Description: "Heizkreis HK1 Vorlauftemperatur sekundaer (0..95)"},
	{Name: "RuecklauftempSek", Address: "0106", Length: 2, Unit: "IS10", Description: "Ruecklauftemperatur sekundaer (0..95)"},
	{Name: "Sekundaerpumpe", Address: "B421", Length: 2, Unit: "IUNON", Description: "Sekundaerpumpe [%], including one status byte"},
	{Name: "FaktorEnergiebilanz", Address: "163F", Length: 1, Unit: "IUNON", Description: "1 = 0.1kWh, 10 = 1kWh, 100 = 10kWh"},
	{Name: "Heizwaerme", Address: "1640", Length: 4, Unit: "IUNON", Description: "Heizwaerme Heizbetrieb, Verdichter 1"},
	{Name: "Heizenergie", Address: "1660", Length: 4, Unit: "IUNON", Description: "Elektroenergie Heizbetrieb, Verdichter 1"},
	{Name: "WWwaerme", Address: "1650", Length: 4, Unit: "IUNON", Description: "Heizwaerme WW-Betrieb, Verdichter 1"},
	{Name: "WWenergie", Address: "1670", Length: 4, Unit: "IUNON", Description: "Elektroenergie WW-Betrieb, Verdichter 1"},
	{Name: "Verdichter", Address: "B423", Length: 4, Unit: "IUNON", Description: "Verdichter [%], including one status byte"},
	{Name: "DruckSauggas", Address: "B410", Length: 3, Unit: "IS10", Description: "Druck Sauggas [bar], including one status byte"},
	{Name: "DruckHeissgas", Address: "B411", Length: 3, Unit: "IS10", Description: "Druck Heissgas [bar], including one status byte"},
	{Name: "TempSauggas", Address: "B409", Length: 3, Unit: "IS10", Description: "Temperatur Sauggas, including one status byte"},
	{Name: "TempHeissgas", Address: "B40A", Length: 3, Unit: "IS10", Description: "Temperatur Heissgas, including one status byte"},
	{Name: "Anlagentyp", Address: "00F8", Length: 4, Unit: "DT", Description: "Anlagentyp (must be 204D)"},
}

// vitocalMenu holds the writable settings and function calls.
var vitocalMenu = []optolink.Entry{
	{Name: "Betriebsmodus", Address: "B000", Length: 1, Unit: "BA", AccessMode: "write"},
	{Name: "WWeinmal", Address: "B020", Length: 1, Unit: "OO", AccessMode: "write", Description: "0 = normal, 1 = manueller Heizbetrieb, 2 = 1x Warmwasser auf Temp2"},
	{Name: "SolltempWarmwasser", Address: "6000", Length: 2, Unit: "IS10", AccessMode: "write", Min: bound(10), Max: bound(60), Description: "Warmwassersolltemperatur"},
	{Name: "Hysterese_Vorlauf_ein", Address: "7304", Length: 2, Unit: "IU10", AccessMode: "write", Description: "Verdichter schaltet im Heizbetrieb ein"},
	{Name: "Hysterese_Vorlauf_aus", Address: "7313", Length: 2, Unit: "IU10", AccessMode: "write", Description: "Verdichter schaltet im Heizbetrieb ab"},
	{Name: "Energiebilanz", Address: "B800", Length: 16, Unit: "F_E", AccessMode: "call"},
}

// vitocal300GProbes are raw register probes named after their address.
// Probes shadowed by a named command are left out.
var vitocal300GProbes = []optolink.Entry{
	{Name: "0x0800", Address: "0800", Length: 2, Unit: "IS10"},
	{Name: "0x5600", Address: "5600", Length: 2, Unit: "IS10"},
	{Name: "0x6508", Address: "6508", Length: 2, Unit: "ISNON"},
	{Name: "0xA383", Address: "A383", Length: 2, Unit: "IS100"},
	{Name: "0xA3C5", Address: "A3C5", Length: 2, Unit: "IS100"},
	{Name: "0xA391", Address: "A391", Length: 2, Unit: "IS100"},
	{Name: "0xA393", Address: "A393", Length: 2, Unit: "IS100"},
	{Name: "0x6564", Address: "6564", Length: 2, Unit: "IS10"},
	{Name: "0x2546", Address: "2546", Length: 2, Unit: "IS10"},
	{Name: "0x4546", Address: "4546", Length: 2, Unit: "IS10"},
	{Name: "0x010A", Address: "010A", Length: 2, Unit: "IS10"},
	{Name: "0x1620", Address: "1620", Length: 2, Unit: "ISNON"},
	{Name: "0x1621", Address: "1621", Length: 2, Unit: "ISNON"},
	{Name: "0x1622", Address: "1622", Length: 2, Unit: "ISNON"},
	{Name: "0x1623", Address: "1623", Length: 2, Unit: "ISNON"},
	{Name: "0x1624", Address: "1624", Length: 2, Unit: "ISNON"},
	{Name: "0x1625", Address: "1625", Length: 2, Unit: "ISNON"},
	{Name: "0x1626", Address: "1626", Length: 2, Unit: "ISNON"},
	{Name: "0x1627", Address: "1627", Length: 2, Unit: "ISNON"},
	{Name: "0x1628", Address: "1628", Length: 2, Unit: "ISNON"},
	{Name: "0x1629", Address: "1629", Length: 2, Unit: "ISNON"},
	{Name: "0x790A", Address: "790A", Length: 2, Unit: "ISNON"},
	{Name: "0x0125", Address: "0125", Length: 2, Unit: "IS10"},
	{Name: "0x0126", Address: "0126", Length: 2, Unit: "IS10"},
	{Name: "0x7B0D", Address: "7B0D", Length: 2, Unit: "ISNON"},
	{Name: "0x7B0E", Address: "7B0E", Length: 2, Unit: "ISNON"},
	{Name: "0x0123", Address: "0123", Length: 2, Unit: "IS10"},
	{Name: "0x0124", Address: "0124", Length: 2, Unit: "IS10"},
	{Name: "0x1612", Address: "1612", Length: 2, Unit: "ISNON"},
	{Name: "0x1613", Address: "1613", Length: 2, Unit: "ISNON"},
	{Name: "0x1610", Address: "1610", Length: 2, Unit: "ISNON"},
	{Name: "0x1611", Address: "1611", Length: 2, Unit: "ISNON"},
	{Name: "0x1601", Address: "1601", Length: 2, Unit: "IS10"},
	{Name: "0x1600", Address: "1600", Length: 2, Unit: "IS10"},
	{Name: "0x1603", Address: "1603", Length: 2, Unit: "IS10"},
	{Name: "0x1604", Address: "1604", Length: 2, Unit: "IS10"},
	{Name: "0x1602", Address: "1602", Length: 2, Unit: "IS10"},
	{Name: "0x028A", Address: "028A", Length: 2, Unit: "ISNON"},
	{Name: "0x0281", Address: "0281", Length: 2, Unit: "ISNON"},
	{Name: "0x02A5", Address: "02A5", Length: 2, Unit: "ISNON"},
	{Name: "0x02A6", Address: "02A6", Length: 2, Unit: "ISNON"},
	{Name: "0x02A3", Address: "02A3", Length: 2, Unit: "ISNON"},
	{Name: "0x02A4", Address: "02A4", Length: 2, Unit: "ISNON"},
	{Name: "0x02A1", Address: "02A1", Length: 2, Unit: "ISNON"},
	{Name: "0x02A2", Address: "02A2", Length: 2, Unit: "ISNON"},
	{Name: "0x0288", Address: "0288", Length: 2, Unit: "ISNON"},
	{Name: "0x0289", Address: "0289", Length: 2, Unit: "ISNON"},
	{Name: "0x028B", Address: "028B", Length: 2, Unit: "ISNON"},
	{Name: "0x0291", Address: "0291", Length: 2, Unit: "ISNON"},
	{Name: "0x028C", Address: "028C", Length: 2, Unit: "ISNON"},
	{Name: "0x029C", Address: "029C", Length: 2, Unit: "ISNON"},
	{Name: "0x029D", Address: "029D", Length: 2, Unit: "ISNON"},
	{Name: "0x029E", Address: "029E", Length: 2, Unit: "ISNON"},
	{Name: "0x0296", Address: "0296", Length: 2, Unit: "ISNON"},
	{Name: "0x0297", Address: "0297", Length: 2, Unit: "ISNON"},
	{Name: "0x0298", Address: "0298", Length: 2, Unit: "ISNON"},
	{Name: "0x029B", Address: "029B", Length: 2, Unit: "ISNON"},
	{Name: "0x0284", Address: "0284", Length: 2, Unit: "ISNON"},
	{Name: "0x0292", Address: "0292", Length: 2, Unit: "ISNON"},
	{Name: "0x0286", Address: "0286", Length: 2, Unit: "ISNON"},
	{Name: "0x0287", Address: "0287", Length: 2, Unit: "ISNON"},
	{Name: "0x029F", Address: "029F", Length: 2, Unit: "ISNON"},
	{Name: "0x02A0", Address: "02A0", Length: 2, Unit: "ISNON"},
	{Name: "0x0293", Address: "0293", Length: 2, Unit: "ISNON"},
	{Name: "0x0282", Address: "0282", Length: 2, Unit: "ISNON"},
	{Name: "0x0294", Address: "0294", Length: 2, Unit: "ISNON"},
	{Name: "0x0295", Address: "0295", Length: 2, Unit: "ISNON"},
	{Name: "0x029A", Address: "029A", Length: 2, Unit: "ISNON"},
	{Name: "0x0299", Address: "0299", Length: 2, Unit: "ISNON"},
	{Name: "0x0283", Address: "0283", Length: 2, Unit: "ISNON"},
	{Name: "0x0285", Address: "0285", Length: 2, Unit: "ISNON"},
	{Name: "0x0290", Address: "0290", Length: 2, Unit: "ISNON"},
	{Name: "0x028F", Address: "028F", Length: 2, Unit: "ISNON"},
	{Name: "0x028D", Address: "028D", Length: 2, Unit: "ISNON"},
	{Name: "0x028E", Address: "028E", Length: 2, Unit: "ISNON"},
	{Name: "0x1100", Address: "1100", Length: 2, Unit: "ISNON"},
	{Name: "0x1101", Address: "1101", Length: 2, Unit: "ISNON"},
	{Name: "0x1102", Address: "1102", Length: 2, Unit: "ISNON"},
	{Name: "0x1104", Address: "1104", Length: 2, Unit: "ISNON"},
	{Name: "0x1103", Address: "1103", Length: 2, Unit: "ISNON"},
	{Name: "0x1107", Address: "1107", Length: 2, Unit: "ISNON"},
	{Name: "0x1106", Address: "1106", Length: 2, Unit: "ISNON"},
	{Name: "0x1105", Address: "1105", Length: 2, Unit: "ISNON"},
	{Name: "0x1108", Address: "1108", Length: 2, Unit: "ISNON"},
	{Name: "0x1000", Address: "1000", Length: 2, Unit: "IS10"},
	{Name: "0x1001", Address: "1001", Length: 2, Unit: "IS10"},
	{Name: "0x1002", Address: "1002", Length: 2, Unit: "IS10"},
	{Name: "0x1004", Address: "1004", Length: 2, Unit: "IS10"},
	{Name: "0x1003", Address: "1003", Length: 2, Unit: "IS10"},
	{Name: "0x1007", Address: "1007", Length: 2, Unit: "IS10"},
	{Name: "0x1006", Address: "1006", Length: 2, Unit: "IS10"},
	{Name: "0x1005", Address: "1005", Length: 2, Unit: "IS10"},
	{Name: "0x1008", Address: "1008", Length: 2, Unit: "IS10"},
	{Name: "0x0121", Address: "0121", Length: 2, Unit: "IS10"},
	{Name: "0x0122", Address: "0122", Length: 2, Unit: "IS10"},
	{Name: "0x0108", Address: "0108", Length: 2, Unit: "IS10"},
	{Name: "0x0109", Address: "0109", Length: 2, Unit: "IS10"},
	{Name: "0x7201", Address: "7201", Length: 2, Unit: "ISNON"},
	{Name: "0x1641", Address: "1641", Length: 2, Unit: "IS100"},
	{Name: "0x1642", Address: "1642", Length: 2, Unit: "IS100"},
	{Name: "0x1643", Address: "1643", Length: 2, Unit: "IS100"},
	{Name: "0x1644", Address: "1644", Length: 2, Unit: "IS100"},
	{Name: "0x1645", Address: "1645", Length: 2, Unit: "IS100"},
	{Name: "0x1646", Address: "1646", Length: 2, Unit: "IS100"},
	{Name: "0x1647", Address: "1647", Length: 2, Unit: "IS100"},
	{Name: "0x1648", Address: "1648", Length: 2, Unit: "IS100"},
	{Name: "0x1649", Address: "1649", Length: 2, Unit: "IS100"},
	{Name: "0x164A", Address: "164A", Length: 2, Unit: "IS100"},
	{Name: "0x164B", Address: "164B", Length: 2, Unit: "IS100"},
	{Name: "0x010B", Address: "010B", Length: 2, Unit: "IS10"},
	{Name: "0x2002", Address: "2002", Length: 2, Unit: "ISNON"},
	{Name: "0x3002", Address: "3002", Length: 2, Unit: "ISNON"},
	{Name: "0x4002", Address: "4002", Length: 2, Unit: "ISNON"},
	{Name: "0x0111", Address: "0111", Length: 2, Unit: "IS10"},
	{Name: "0x010C", Address: "010C", Length: 2, Unit: "IS10"},
	{Name: "0x011C", Address: "011C", Length: 2, Unit: "IS10"},
	{Name: "0x011D", Address: "011D", Length: 2, Unit: "IS10"},
	{Name: "0x011E", Address: "011E", Length: 2, Unit: "IS10"},
	{Name: "0x0116", Address: "0116", Length: 2, Unit: "IS10"},
	{Name: "0x0117", Address: "0117", Length: 2, Unit: "IS10"},
	{Name: "0x0118", Address: "0118", Length: 2, Unit: "IS10"},
	{Name: "0x011B", Address: "011B", Length: 2, Unit: "IS10"},
	{Name: "0x0107", Address: "0107", Length: 2, Unit: "IS10"},
	{Name: "0x011F", Address: "011F", Length: 2, Unit: "IS10"},
	{Name: "0x0120", Address: "0120", Length: 2, Unit: "IS10"},
	{Name: "0x0113", Address: "0113", Length: 2, Unit: "IS10"},
	{Name: "0x0102", Address: "0102", Length: 2, Unit: "IS10"},
	{Name: "0x5012", Address: "5012", Length: 2, Unit: "ISNON"},
	{Name: "0x5112", Address: "5112", Length: 2, Unit: "ISNON"},
	{Name: "0x0115", Address: "0115", Length: 2, Unit: "IS10"},
	{Name: "0x011A", Address: "011A", Length: 2, Unit: "IS10"},
	{Name: "0x0119", Address: "0119", Length: 2, Unit: "IS10"},
	{Name: "0x0110", Address: "0110", Length: 2, Unit: "IS10"},
	{Name: "0x010F", Address: "010F", Length: 2, Unit: "IS10"},
	{Name: "0x010E", Address: "010E", Length: 2, Unit: "IS10"},
	{Name: "0x6001", Address: "6001", Length: 2, Unit: "ISNON"},
	{Name: "0x6002", Address: "6002", Length: 2, Unit: "ISNON"},}

func concat(parts ...[]optolink.Entry) []optolink.Entry {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]optolink.Entry, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
